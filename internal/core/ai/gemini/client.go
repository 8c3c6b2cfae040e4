package gemini

import (
	"context"
	"fmt"
	"strings"

	"recipe-finder/internal/core/ai/provider"

	"google.golang.org/genai"
)

// Client Gemini 供應商
type Client struct {
	cli   *genai.Client
	model string
}

// NewClient 創建 Gemini 客戶端
func NewClient(ctx context.Context, cfg provider.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{cli: cli, model: model}, nil
}

// Generate 發送生成請求
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	system, rest := provider.SplitSystem(req.Messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		contents = append(contents, &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	temperature := float32(req.Temperature)
	gcfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.MaxTokens > 0 {
		gcfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if system != "" {
		gcfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, gcfg)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, provider.ErrEmptyCompletion
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return nil, provider.ErrEmptyCompletion
	}

	out := &provider.Response{Content: b.String()}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = provider.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func (c *Client) Name() string     { return "gemini" }
func (c *Client) GetModel() string { return c.model }
func (c *Client) Close() error     { return nil }
