package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/pkg/common"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Completer 文字補全介面
type Completer interface {
	Complete(ctx context.Context, messages []provider.Message) (string, error)
}

// Memo 單次流程內的補全記憶化，容量有上限
type Memo struct {
	next   Completer
	cache  *lru.Cache[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo 以固定容量包裝 Completer
func NewMemo(next Completer, size int) (*Memo, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memo size must be positive, got %d", size)
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo cache: %w", err)
	}
	return &Memo{next: next, cache: c}, nil
}

// Complete 相同訊息只呼叫一次，只有成功結果會被記住
func (m *Memo) Complete(ctx context.Context, messages []provider.Message) (string, error) {
	key := generateKey(messages)
	if v, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		common.LogCacheHit("completion")
		return v, nil
	}
	m.misses.Add(1)
	common.LogCacheMiss("completion")

	out, err := m.next.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	m.cache.Add(key, out)
	return out, nil
}

// Stats 命中與未命中次數
func (m *Memo) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}

// Len 目前快取項目數
func (m *Memo) Len() int {
	return m.cache.Len()
}

// generateKey 以角色與內容計算 SHA-256
func generateKey(messages []provider.Message) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte{0})
		h.Write([]byte(msg.Content))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}
