package openai

import (
	"context"
	"fmt"
	"strings"

	"recipe-finder/internal/core/ai/provider"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client OpenAI Chat Completions 供應商
type Client struct {
	client oai.Client
	model  string
}

// NewClient 創建 OpenAI 客戶端，SDK 內建重試關閉，由上層統一重試
func NewClient(cfg provider.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = string(oai.ChatModelGPT4o)
	}

	return &Client{client: oai.NewClient(opts...), model: model}, nil
}

// Generate 發送對話請求
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	messages := make([]oai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case provider.RoleSystem:
			messages = append(messages, oai.SystemMessage(msg.Content))
		default:
			messages = append(messages, oai.UserMessage(msg.Content))
		}
	}

	params := oai.ChatCompletionNewParams{
		Model:       oai.ChatModel(c.model),
		Messages:    messages,
		Temperature: oai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = oai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, provider.ErrEmptyCompletion
	}

	return &provider.Response{
		Content: content,
		Usage: provider.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (c *Client) Name() string     { return "openai" }
func (c *Client) GetModel() string { return c.model }
func (c *Client) Close() error     { return nil }
