package recipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipe-finder/internal/core/jobs"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Finder 同步執行食譜流程
type Finder interface {
	Find(ctx context.Context, query string) (*recipe.EnrichedRecipe, error)
	ExtractIngredients(ctx context.Context, query string) (string, error)
}

// JobQueue 非同步任務隊列
type JobQueue interface {
	Enqueue(ctx context.Context, query string) (*jobs.Job, error)
	Get(ctx context.Context, id string) (*jobs.Job, error)
}

// Renderer 將食譜排版為 PDF
type Renderer interface {
	Write(ctx context.Context, r *recipe.EnrichedRecipe, w io.Writer) error
}

// QueryRequest 使用者以自然語言描述手邊食材
type QueryRequest struct {
	Query string `json:"query" binding:"required,max=2000"`
}

// JobAccepted 任務建立回應
type JobAccepted struct {
	ID     string      `json:"id"`
	Status jobs.Status `json:"status"`
}

// IngredientsResponse 食材擷取回應
type IngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
	Joined      string   `json:"joined"`
}

// Handler 食譜處理程序
type Handler struct {
	finder   Finder
	queue    JobQueue
	renderer Renderer
	debug    bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(finder Finder, queue JobQueue, renderer Renderer, debug bool) *Handler {
	return &Handler{finder: finder, queue: queue, renderer: renderer, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(api *gin.RouterGroup) {
	recipes := api.Group("/recipes")
	{
		recipes.POST("", h.CreateJob)
		recipes.POST("/find", h.Find)
		recipes.GET("/:id", h.GetJob)
		recipes.GET("/:id/pdf", h.GetPDF)
	}
	api.POST("/ingredients/extract", h.ExtractIngredients)
}

// bind 嚴格解析請求體（拒絕未知欄位），再以 binding 標籤驗證
func (h *Handler) bind(c *gin.Context) (string, bool) {
	var req QueryRequest
	err := common.DecodeJSONStrict(c.Request.Body, &req)
	if err == nil {
		err = binding.Validator.ValidateStruct(&req)
	}
	if err != nil {
		common.LogWarn("請求格式無效", requestFields(c, zap.Error(err))...)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteErrorResponse(c, common.ErrPayloadTooLarge.Wrap(err), h.debug)
			return "", false
		}
		common.WriteErrorResponse(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return "", false
	}
	return strings.TrimSpace(req.Query), true
}

// CreateJob 建立非同步食譜任務
func (h *Handler) CreateJob(c *gin.Context) {
	query, ok := h.bind(c)
	if !ok {
		return
	}

	job, err := h.queue.Enqueue(c.Request.Context(), query)
	if err != nil {
		common.LogWarn("任務建立失敗", requestFields(c, zap.Error(err))...)
		common.WriteErrorResponse(c, err, h.debug)
		return
	}

	common.LogInfo("任務已建立", requestFields(c, zap.String("job_id", job.ID))...)
	c.Header("Location", "/api/v1/recipes/"+job.ID)
	c.JSON(http.StatusAccepted, JobAccepted{ID: job.ID, Status: job.Status})
}

// GetJob 查詢任務狀態
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteErrorResponse(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetPDF 下載已完成任務的 PDF
func (h *Handler) GetPDF(c *gin.Context) {
	job, err := h.queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteErrorResponse(c, err, h.debug)
		return
	}

	switch job.Status {
	case jobs.StatusDone:
	case jobs.StatusFailed:
		common.WriteErrorResponse(c, common.FromReason(job.Reason).Wrap(fmt.Errorf("%s", job.Error)), h.debug)
		return
	default:
		common.WriteErrorResponse(c, common.ErrJobNotReady.Wrap(fmt.Errorf("job is %s", job.Status)), h.debug)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Write(c.Request.Context(), job.Recipe, &buf); err != nil {
		common.LogError("PDF 排版失敗", requestFields(c, zap.String("job_id", job.ID), zap.Error(err))...)
		common.WriteErrorResponse(c, err, h.debug)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="recipe-%s.pdf"`, job.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Find 同步執行完整流程
func (h *Handler) Find(c *gin.Context) {
	query, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.finder.Find(c.Request.Context(), query)
	if err != nil {
		common.LogWarn("食譜流程失敗", requestFields(c, zap.String("reason", string(recipe.ReasonOf(err))), zap.Error(err))...)
		common.WriteErrorResponse(c, pipelineError(err), h.debug)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExtractIngredients 只執行食材擷取
func (h *Handler) ExtractIngredients(c *gin.Context) {
	query, ok := h.bind(c)
	if !ok {
		return
	}

	joined, err := h.finder.ExtractIngredients(c.Request.Context(), query)
	if err != nil {
		ce := pipelineError(err)
		if ce.Code == common.ErrCodeInternalError {
			ce = common.ErrNoIngredients.Wrap(err)
		}
		common.WriteErrorResponse(c, ce, h.debug)
		return
	}

	c.JSON(http.StatusOK, IngredientsResponse{
		Ingredients: strings.Split(joined, ","),
		Joined:      joined,
	})
}
