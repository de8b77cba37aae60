package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "aquaops/internal/core/context"
)

func TestWithContext_AddsTraceAndActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithActor(ctx, &appctx.Actor{ID: "mod-7", Role: appctx.RoleModerator})

	l.WithContext(ctx).Infow("bottles taken", "filled", 100)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "t-1", fields["trace_id"])
		assert.Equal(t, "r-1", fields["request_id"])
		assert.Equal(t, "mod-7", fields["actor_id"])
		assert.Equal(t, "moderator", fields["role"])
		assert.Equal(t, int64(100), fields["filled"])
	}
}

func TestFromContext_PrefersContextLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := WithLogger(context.Background(), l.WithComponent("usage"))
	Info(ctx, "hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "usage", entries[0].ContextMap()["component"])
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	core, logs := observer.New(zap.InfoLevel)
	SetDefault(&Logger{zap.New(core).Sugar()})

	Warn(context.Background(), "careful")
	assert.Equal(t, 1, logs.Len())
}
