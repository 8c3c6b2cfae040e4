package recipe

import (
	"errors"
	"fmt"
)

var (
	// ErrFragmentNotFound 回應中找不到指定標籤片段
	ErrFragmentNotFound = errors.New("fragment not found")
	// ErrIngredientParse 食材片段無法解析
	ErrIngredientParse = errors.New("ingredient parse error")
	// ErrRecipeParse 食譜文件無法解析
	ErrRecipeParse = errors.New("recipe parse error")
	// ErrEmptyQuery 使用者輸入為空
	ErrEmptyQuery = errors.New("empty query")
)

// State 流程狀態
type State string

const (
	StateStart                State = "START"
	StateIngredientsExtracted State = "INGREDIENTS_EXTRACTED"
	StateRecipeMatched        State = "RECIPE_MATCHED"
	StateDetailsFetched       State = "DETAILS_FETCHED"
	StateDraftParsed          State = "DRAFT_PARSED"
	StateEnriched             State = "ENRICHED"
	StateFailed               State = "FAILED"
)

// Reason 流程失敗原因
type Reason string

const (
	ReasonNoIngredients    Reason = "no-ingredients"
	ReasonNoRecipeMatch    Reason = "no-recipe-match"
	ReasonNoRecipeDetails  Reason = "no-recipe-details"
	ReasonEnrichmentFailed Reason = "enrichment-failed"
)

// FailedError 流程終止於 FAILED，State 為失敗前最後到達的狀態
type FailedError struct {
	State  State
	Reason Reason
	Err    error
}

func (e *FailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("recipe pipeline failed (%s) after %s", e.Reason, e.State)
	}
	return fmt.Sprintf("recipe pipeline failed (%s) after %s: %v", e.Reason, e.State, e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// ReasonOf 取出失敗原因，非流程錯誤時回傳空字串
func ReasonOf(err error) Reason {
	var fe *FailedError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ""
}
