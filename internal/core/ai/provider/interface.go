package provider

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyCompletion 模型回傳空內容
var ErrEmptyCompletion = errors.New("empty completion")

// Role 訊息角色
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System 建立 system 訊息
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User 建立 user 訊息
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Generate 生成 AI 響應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Name 供應商名稱，用於日誌
	Name() string

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string
}

// SplitSystem 將 system 訊息合併為一段，其餘訊息保持原順序
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
