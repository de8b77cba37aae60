package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquaops/internal/core/apperror"
	"aquaops/pkg/logger"
)

// ErrorHandler renders the last error registered on the gin context as
// {code, message, details, retryable}. Internal causes are logged, never returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
			appErr = apperror.NewInternal(err)
		} else if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		body := gin.H{
			"code":      appErr.Code,
			"message":   appErr.Message,
			"details":   appErr.Details,
			"retryable": appErr.Retryable,
		}
		if appErr.HTTPStatus >= http.StatusInternalServerError && appErr.Code == apperror.CodeInternal {
			body["message"] = "Internal server error"
			body["details"] = map[string]any{"request_id": c.GetString(ctxRequestID)}
		}

		finishIdempotency(c, appErr, body)
		c.JSON(appErr.HTTPStatus, body)
	}
}

// finishIdempotency stores a permanent failure for replay and releases the
// key after a retryable one so the client can retry with it.
func finishIdempotency(c *gin.Context, appErr *apperror.AppError, body any) {
	key, store := idempotencyFrom(c)
	if store == nil {
		return
	}
	ctx := c.Request.Context()

	var err error
	if appErr.Retryable {
		err = store.ReleaseKey(ctx, key)
	} else {
		err = store.FailKey(ctx, key, appErr.HTTPStatus, "application/json", body)
	}
	if err != nil {
		logger.Warn(ctx, "idempotency key not finalised", "key", key, "error", err)
	}
}
