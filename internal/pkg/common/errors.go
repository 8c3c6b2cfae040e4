package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Wrap 以相同代碼包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// Is 以錯誤代碼比對
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 食譜流程
	ErrCodeNoIngredients    = "NO_INGREDIENTS"
	ErrCodeNoRecipeMatch    = "NO_RECIPE_MATCH"
	ErrCodeNoRecipeDetails  = "NO_RECIPE_DETAILS"
	ErrCodeEnrichmentFailed = "ENRICHMENT_FAILED"
	ErrCodeJobNotFound      = "JOB_NOT_FOUND"
	ErrCodeJobNotReady      = "JOB_NOT_READY"
	ErrCodeQueueFull        = "QUEUE_FULL"
)

// 預定義錯誤
var (
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrPayloadTooLarge    = NewError(ErrCodePayloadTooLarge, "請求體過大", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrNoIngredients    = NewError(ErrCodeNoIngredients, "無法從輸入中辨識食材", http.StatusUnprocessableEntity, nil)
	ErrNoRecipeMatch    = NewError(ErrCodeNoRecipeMatch, "找不到符合的食譜", http.StatusNotFound, nil)
	ErrNoRecipeDetails  = NewError(ErrCodeNoRecipeDetails, "無法取得食譜詳細資料", http.StatusBadGateway, nil)
	ErrEnrichmentFailed = NewError(ErrCodeEnrichmentFailed, "食譜改寫失敗", http.StatusBadGateway, nil)
	ErrJobNotFound      = NewError(ErrCodeJobNotFound, "任務不存在", http.StatusNotFound, nil)
	ErrJobNotReady      = NewError(ErrCodeJobNotReady, "任務尚未完成", http.StatusConflict, nil)
	ErrQueueFull        = NewError(ErrCodeQueueFull, "任務隊列已滿", http.StatusServiceUnavailable, nil)
)

// FromReason 將流程失敗原因轉換為 API 錯誤
func FromReason(reason string) *CustomError {
	switch reason {
	case "no-ingredients":
		return ErrNoIngredients
	case "no-recipe-match":
		return ErrNoRecipeMatch
	case "no-recipe-details":
		return ErrNoRecipeDetails
	case "enrichment-failed":
		return ErrEnrichmentFailed
	default:
		return ErrInternalError
	}
}
