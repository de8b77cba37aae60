package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "aquaops/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// gin context keys
const (
	ctxRequestID      = "request_id"
	ctxTraceID        = "trace_id"
	ctxActorID        = "actor_id"
	ctxIdempotencyKey = "idempotency_key"
	ctxIdempotency    = "idempotency_store"
)

// Trace keeps or generates the request and trace IDs and echoes them back.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderTraceID), c.GetHeader(HeaderRequestID))

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))

		c.Set(ctxTraceID, trace.TraceID)
		c.Set(ctxRequestID, trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
