package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/pkg/logger"
)

func TestAddCron(t *testing.T) {
	s := New(time.UTC, logger.Nop())
	noop := func(context.Context) error { return nil }

	assert.NoError(t, s.AddCron("disabled", "", noop))
	assert.NoError(t, s.AddCron("nightly", "0 3 * * *", noop))
	assert.Error(t, s.AddCron("broken", "every day", noop))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestEveryRunsUntilStop(t *testing.T) {
	s := New(time.UTC, logger.Nop())

	var runs atomic.Int32
	s.Every("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("failures are logged, not fatal")
	})
	s.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestRunPassesCancellableContext(t *testing.T) {
	s := New(time.UTC, logger.Nop())

	var deadline bool
	s.run("probe", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})
	assert.True(t, deadline)
}
