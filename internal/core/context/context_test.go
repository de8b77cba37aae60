package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraceContextKeepsIncomingIDs(t *testing.T) {
	tc := NewTraceContext("trace-1", "")
	assert.Equal(t, "trace-1", tc.TraceID)
	assert.NotEmpty(t, tc.RequestID)
}

func TestLogFields(t *testing.T) {
	assert.Empty(t, LogFields(context.Background()))

	ctx := WithTrace(context.Background(), &TraceContext{TraceID: "t", RequestID: "r"})
	ctx = WithActor(ctx, &Actor{ID: "m-1", Role: RoleModerator})
	assert.Equal(t, []any{"trace_id", "t", "request_id", "r", "actor_id", "m-1", "role", "moderator"}, LogFields(ctx))
	assert.Equal(t, "r", GetRequestID(ctx))
	assert.False(t, GetActor(ctx).IsAdmin())
}
