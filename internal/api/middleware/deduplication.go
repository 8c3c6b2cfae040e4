package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"recipe-finder/internal/pkg/common"
)

const dedupCapacity = 4096

// Deduplication POST 請求去重中間件：相同來源、路徑與內容在 window 內只處理一次
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = time.Second
	}
	seen := expirable.NewLRU[string, time.Time](dedupCapacity, nil, window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("無法讀取請求體", zap.Error(err))
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					common.WriteErrorResponse(c, common.ErrPayloadTooLarge.Wrap(err), false)
					return
				}
				common.WriteErrorResponse(c, common.ErrInvalidRequest.Wrap(err), false)
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if last, ok := seen.Get(fingerprint); ok {
			common.LogInfo("重複請求已拒絕",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.Duration("since", time.Since(last)),
			)
			common.WriteErrorResponse(c, common.ErrTooManyRequests, false)
			return
		}
		seen.Add(fingerprint, time.Now())

		c.Next()
	}
}
