package recipe

import (
	"errors"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestFields 日誌共用欄位
func requestFields(c *gin.Context, extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("request_id", requestid.Get(c)),
		zap.String("client_ip", c.ClientIP()),
	}, extra...)
}

// pipelineError 將流程錯誤對應到 API 錯誤
func pipelineError(err error) *common.CustomError {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, recipe.ErrEmptyQuery) {
		return common.ErrInvalidRequest.Wrap(err)
	}
	if reason := recipe.ReasonOf(err); reason != "" {
		return common.FromReason(string(reason)).Wrap(err)
	}
	return common.ErrInternalError.Wrap(err)
}
