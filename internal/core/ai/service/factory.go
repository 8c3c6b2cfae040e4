package service

import (
	"context"
	"fmt"

	"recipe-finder/internal/core/ai/claude"
	"recipe-finder/internal/core/ai/gemini"
	"recipe-finder/internal/core/ai/openai"
	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/infrastructure/config"
)

// NewProvider 依設定選擇模型供應商
func NewProvider(ctx context.Context, cfg config.LLMConfig) (provider.Provider, error) {
	pc := provider.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
		BaseURL: cfg.BaseURL,
	}

	switch cfg.Provider {
	case "", "openai":
		return openai.NewClient(pc)
	case "anthropic":
		return claude.NewClient(pc)
	case "gemini":
		return gemini.NewClient(ctx, pc)
	case "openrouter":
		return openrouter.NewClient(pc)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
