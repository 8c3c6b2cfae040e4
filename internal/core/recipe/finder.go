package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-finder/internal/core/ai/cache"
	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/pkg/common"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("recipe-finder/internal/core/recipe")

// Completer 文字補全
type Completer interface {
	Complete(ctx context.Context, messages []provider.Message) (string, error)
}

// Catalog 食譜目錄查詢
type Catalog interface {
	FindByIngredients(ctx context.Context, ingredients string, number int) ([]catalog.RecipeMatch, error)
	Information(ctx context.Context, id int64, includeNutrition bool) (*catalog.RecipeDetail, error)
}

// Observer 狀態轉換通知
type Observer func(from, to State)

// FinderService 食譜搜尋與改寫流程
type FinderService struct {
	completer Completer
	catalog   Catalog
	memoSize  int
	observer  Observer
}

// FinderOption 流程選項
type FinderOption func(*FinderService)

// WithMemoSize 每次流程使用的補全記憶化容量，0 表示停用
func WithMemoSize(n int) FinderOption {
	return func(s *FinderService) { s.memoSize = n }
}

// WithObserver 設定狀態轉換通知
func WithObserver(fn Observer) FinderOption {
	return func(s *FinderService) { s.observer = fn }
}

// NewFinderService 創建流程服務
func NewFinderService(completer Completer, cat Catalog, opts ...FinderOption) *FinderService {
	s := &FinderService{completer: completer, catalog: cat}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run 單次流程的狀態
type run struct {
	svc       *FinderService
	completer Completer
	state     State
	started   time.Time
}

func (r *run) transition(to State) {
	from := r.state
	r.state = to
	common.LogDebug("流程狀態轉換",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	if r.svc.observer != nil {
		r.svc.observer(from, to)
	}
}

func (r *run) fail(reason Reason, err error) error {
	fe := &FailedError{State: r.state, Reason: reason, Err: err}
	r.transition(StateFailed)
	common.LogWarn("食譜流程失敗",
		zap.String("state", string(fe.State)),
		zap.String("reason", string(reason)),
		zap.Duration("耗時", time.Since(r.started)),
		zap.Error(err),
	)
	return fe
}

// traced 以子 span 包住一個步驟
func traced[T any](ctx context.Context, name string, fn func(context.Context) (T, error), attrs ...attribute.KeyValue) (T, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()
	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

// Find 執行完整流程；失敗時回傳 *FailedError，不會回傳部分結果
func (s *FinderService) Find(ctx context.Context, query string) (*EnrichedRecipe, error) {
	ctx, span := tracer.Start(ctx, "recipe.find", trace.WithAttributes(attribute.Int("query.length", len(query))))
	defer span.End()

	r := &run{svc: s, completer: s.completer, state: StateStart, started: time.Now()}
	if s.memoSize > 0 {
		memo, err := cache.NewMemo(s.completer, s.memoSize)
		if err != nil {
			return nil, err
		}
		r.completer = memo
	}

	result, err := r.execute(ctx, strings.TrimSpace(query))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ReasonOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("recipe.title", result.Title))
	return result, nil
}

func (r *run) execute(ctx context.Context, query string) (*EnrichedRecipe, error) {
	if query == "" {
		return nil, r.fail(ReasonNoIngredients, ErrEmptyQuery)
	}

	// START → INGREDIENTS_EXTRACTED
	ingredients, err := traced(ctx, "recipe.extract_ingredients", func(ctx context.Context) (string, error) {
		return extractIngredients(ctx, r.completer, query)
	})
	if err != nil {
		return nil, r.fail(ReasonNoIngredients, err)
	}
	r.transition(StateIngredientsExtracted)
	common.LogInfo("食材擷取完成", zap.String("ingredients", ingredients))

	// → RECIPE_MATCHED
	match, err := traced(ctx, "recipe.match", func(ctx context.Context) (*catalog.RecipeMatch, error) {
		matches, err := r.svc.catalog.FindByIngredients(ctx, ingredients, 1)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no recipe matches %q", ingredients)
		}
		return &matches[0], nil
	}, attribute.String("recipe.ingredients", ingredients))
	if err != nil {
		return nil, r.fail(ReasonNoRecipeMatch, err)
	}
	r.transition(StateRecipeMatched)
	common.LogInfo("食譜比對成功", zap.Int64("recipe_id", match.ID), zap.String("title", match.Title))

	// → DETAILS_FETCHED
	detail, err := traced(ctx, "recipe.details", func(ctx context.Context) (*catalog.RecipeDetail, error) {
		d, err := r.svc.catalog.Information(ctx, match.ID, true)
		if err == nil && d == nil {
			err = fmt.Errorf("empty detail for recipe %d", match.ID)
		}
		return d, err
	}, attribute.Int64("recipe.id", match.ID))
	if err != nil {
		return nil, r.fail(ReasonNoRecipeDetails, err)
	}
	r.transition(StateDetailsFetched)

	usage := ProjectUsage(match)
	nutrients := ProjectNutrients(detail)
	diet := ProjectDiet(detail)

	// → DRAFT_PARSED
	draft, err := traced(ctx, "recipe.enrich", func(ctx context.Context) (*Draft, error) {
		raw, err := r.completer.Complete(ctx, BuildEnrichmentMessages(detail.Summary, usage.Used, detail.Instructions))
		if err != nil {
			return nil, err
		}
		return ParseRecipe(raw)
	})
	if err != nil {
		return nil, r.fail(ReasonEnrichmentFailed, err)
	}
	r.transition(StateDraftParsed)

	// → ENRICHED
	result := merge(draft, match, detail, diet, nutrients)
	r.transition(StateEnriched)
	common.LogInfo("食譜流程完成",
		zap.String("title", result.Title),
		zap.Int("steps", len(result.Instructions)),
		zap.Duration("耗時", time.Since(r.started)),
	)
	return result, nil
}

// ExtractIngredients 只執行食材擷取步驟
func (s *FinderService) ExtractIngredients(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	return traced(ctx, "recipe.extract_ingredients", func(ctx context.Context) (string, error) {
		return extractIngredients(ctx, s.completer, query)
	})
}

func extractIngredients(ctx context.Context, c Completer, query string) (string, error) {
	raw, err := c.Complete(ctx, BuildExtractionMessages(query))
	if err != nil {
		return "", err
	}
	ingredients, err := ExtractIngredients(raw)
	if err != nil {
		return "", err
	}
	if ingredients == "" {
		return "", errors.New("completion listed no ingredients")
	}
	return ingredients, nil
}

// merge 以目錄資料補齊標題、圖片、飲食與營養資訊
func merge(draft *Draft, match *catalog.RecipeMatch, detail *catalog.RecipeDetail, diet DietSummary, nutrients []catalog.Nutrient) *EnrichedRecipe {
	title := match.Title
	if title == "" {
		title = detail.Title
	}
	image := match.Image
	if image == "" {
		image = detail.Image
	}
	return &EnrichedRecipe{
		Title:        title,
		Image:        image,
		Summary:      draft.Summary,
		Ingredients:  draft.Ingredients,
		Instructions: draft.Instructions,
		CookingNotes: draft.CookingNotes,
		Diet:         diet,
		Nutrients:    nutrients,
	}
}
