package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrCompletionFailure 重試耗盡後仍無法取得回應
var ErrCompletionFailure = errors.New("completion failure")

// Backoff 有上下限的指數退避
type Backoff struct {
	Min        time.Duration
	Max        time.Duration
	Multiplier time.Duration
}

// DefaultBackoff 4s 起跳、15s 封頂
var DefaultBackoff = Backoff{Min: 4 * time.Second, Max: 15 * time.Second, Multiplier: time.Second}

// Delay 第 attempt 次失敗後的等待時間（attempt 從 1 開始）
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Multiplier
	for i := 1; i < attempt && d < b.Max; i++ {
		d *= 2
	}
	if d < b.Min {
		d = b.Min
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

// SleepFunc 可被 context 中斷的等待
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Service 文字補全服務，負責固定參數與重試
type Service struct {
	provider    provider.Provider
	temperature float64
	maxTokens   int
	maxAttempts int
	backoff     Backoff
	sleep       SleepFunc
}

// Option 服務選項
type Option func(*Service)

// WithSleep 替換等待函式（測試用）
func WithSleep(fn SleepFunc) Option {
	return func(s *Service) { s.sleep = fn }
}

// WithBackoff 指定退避策略
func WithBackoff(b Backoff) Option {
	return func(s *Service) { s.backoff = b }
}

// WithMaxAttempts 指定最大嘗試次數
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewService 創建補全服務
func NewService(p provider.Provider, cfg config.LLMConfig, opts ...Option) *Service {
	s := &Service{
		provider:    p,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxAttempts: 3,
		backoff:     DefaultBackoff,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromConfig 依設定建立供應商與重試策略
func NewServiceFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := NewProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	return NewService(p, cfg.LLM,
		WithMaxAttempts(cfg.Completion.MaxAttempts),
		WithBackoff(Backoff{
			Min:        cfg.Completion.BackoffMin,
			Max:        cfg.Completion.BackoffMax,
			Multiplier: cfg.Completion.Multiplier,
		}),
	), nil
}

// Complete 送出訊息並回傳模型文字，失敗時依退避策略重試
func (s *Service) Complete(ctx context.Context, messages []provider.Message) (string, error) {
	req := &provider.Request{
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		start := time.Now()
		resp, err := s.provider.Generate(ctx, req)
		common.LogAICall(s.provider.Name(), attempt, time.Since(start), err)
		if err == nil {
			return resp.Content, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == s.maxAttempts {
			break
		}

		wait := s.backoff.Delay(attempt)
		common.LogDebug("等待後重試",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
		)
		if err := s.sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	return "", fmt.Errorf("%w: %s/%s: %w", ErrCompletionFailure, s.provider.Name(), s.provider.GetModel(), lastErr)
}

// Provider 取得底層供應商
func (s *Service) Provider() provider.Provider {
	return s.provider
}

// Close 關閉底層供應商
func (s *Service) Close() error {
	return s.provider.Close()
}
