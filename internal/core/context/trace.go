package context

import (
	"context"

	"aquaops/internal/core/id"
)

// TraceContext correlates the log lines, audit rows and outbox events of
// one request.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext keeps the caller's IDs and fills in missing ones.
func NewTraceContext(traceID, requestID string) *TraceContext {
	if traceID == "" {
		traceID = id.New().String()
	}
	if requestID == "" {
		requestID = id.New().String()
	}
	return &TraceContext{TraceID: traceID, RequestID: requestID}
}

// LogFields returns the correlation key/value pairs known for ctx.
func LogFields(ctx context.Context) []any {
	var kv []any
	if t := GetTrace(ctx); t != nil {
		kv = append(kv, "trace_id", t.TraceID, "request_id", t.RequestID)
	}
	if a := GetActor(ctx); a != nil {
		kv = append(kv, "actor_id", a.ID, "role", string(a.Role))
	}
	return kv
}
