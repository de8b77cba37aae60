// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"aquaops/internal/core/apperror"
	"aquaops/pkg/logger"
)

// Recovery turns a panic into a 500 response. The stack is logged, never
// returned. The panic skips ErrorHandler, so the response is written here.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", err))
				_ = c.Error(appErr)
				if key, store := idempotencyFrom(c); store != nil {
					_ = store.ReleaseKey(c.Request.Context(), key)
				}
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":      appErr.Code,
					"message":   appErr.Message,
					"details":   map[string]any{"request_id": c.GetString(ctxRequestID)},
					"retryable": false,
				})
			}
		}()
		c.Next()
	}
}
