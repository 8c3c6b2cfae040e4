package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	// ErrLookupFailure 食材比對請求失敗
	ErrLookupFailure = errors.New("recipe lookup failure")
	// ErrDetailFetchFailure 詳細資料請求失敗
	ErrDetailFetchFailure = errors.New("recipe detail fetch failure")
)

// Client Spoonacular 食譜目錄客戶端
type Client struct {
	client *resty.Client
}

// NewClient 創建目錄客戶端
func NewClient(cfg config.SpoonacularConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetQueryParam("apiKey", cfg.APIKey).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{client: client}
}

// NormalizeIngredients 小寫並去除空白與空項目，保留順序
func NormalizeIngredients(ingredients string) string {
	parts := strings.Split(ingredients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// FindByIngredients 以食材查詢最符合的食譜
func (c *Client) FindByIngredients(ctx context.Context, ingredients string, number int) ([]RecipeMatch, error) {
	query := NormalizeIngredients(ingredients)
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ingredients": query,
			"number":      strconv.Itoa(number),
		}).
		Get("/recipes/findByIngredients")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrLookupFailure, resp.StatusCode(), common.Truncate(resp.String(), 200))
	}

	var matches []RecipeMatch
	if err := common.ParseJSONBytes(resp.Body(), &matches); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrLookupFailure, err)
	}

	common.LogInfo("食譜比對完成",
		zap.String("ingredients", query),
		zap.Int("matches", len(matches)),
		zap.Duration("耗時", time.Since(start)),
	)
	return matches, nil
}

// Information 取得食譜詳細資料，summary 與 instructions 轉為純文字
func (c *Client) Information(ctx context.Context, id int64, includeNutrition bool) (*RecipeDetail, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetQueryParam("includeNutrition", strconv.FormatBool(includeNutrition)).
		Get("/recipes/{id}/information")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetailFetchFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrDetailFetchFailure, resp.StatusCode(), common.Truncate(resp.String(), 200))
	}

	var detail RecipeDetail
	if err := common.ParseJSONBytes(resp.Body(), &detail); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrDetailFetchFailure, err)
	}
	detail.Summary = PlainText(detail.Summary)
	detail.Instructions = PlainText(detail.Instructions)

	common.LogInfo("食譜詳細資料取得完成",
		zap.Int64("recipe_id", id),
		zap.Bool("has_nutrition", detail.Nutrition != nil),
	)
	return &detail, nil
}
