package bootstrap

import (
	"context"
	"fmt"

	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Finder 組裝好的食譜流程與其關閉函式
type Finder struct {
	*recipe.FinderService
	completion *service.Service
}

// Close 釋放模型供應商連線
func (f *Finder) Close() error {
	return f.completion.Close()
}

// NewFinder 依設定建立補全服務、目錄客戶端與流程
func NewFinder(ctx context.Context, cfg *config.Config) (*Finder, error) {
	completion, err := service.NewServiceFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init completion service: %w", err)
	}

	cat := catalog.NewClient(cfg.Spoonacular)

	common.LogInfo("食譜流程已初始化",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Int("memo_size", cfg.Completion.MemoSize),
	)

	return &Finder{
		FinderService: recipe.NewFinderService(completion, cat, recipe.WithMemoSize(cfg.Completion.MemoSize)),
		completion:    completion,
	}, nil
}
