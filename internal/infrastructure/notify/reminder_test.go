package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/types"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/infrastructure/storage/memory"
)

func TestReminder_NudgesOpenRoundsOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := types.NewClock(time.UTC, func() time.Time { return time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC) })
	today := clock.Today()

	open := moderator.NewModerator("Ravi", "+971500000001", nil)
	closed := moderator.NewModerator("Sam", "+971500000002", nil)
	for _, m := range []*moderator.Moderator{open, closed} {
		require.NoError(t, store.Moderators().Create(ctx, m))
	}

	u := usage.NewBottleUsage(open.ID, today, nil)
	u.Remaining, u.Empty = 5, 2
	_, err := store.Usage().InsertIfAbsent(ctx, u)
	require.NoError(t, err)

	done := usage.NewBottleUsage(closed.ID, today, nil)
	done.Remaining, done.Done = 3, true
	_, err = store.Usage().InsertIfAbsent(ctx, done)
	require.NoError(t, err)

	sender := &recordingSender{}
	sent, err := NewReminder(store.Usage(), store.Moderators(), sender, clock).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Equal(t, open.Phone, sender.to)
	assert.Contains(t, sender.body, "Remaining: 5 filled, 2 empty")
}

func TestReminder_WithoutSenderSendsNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := types.NewClock(time.UTC, nil)

	m := moderator.NewModerator("Ravi", "+971500000001", nil)
	require.NoError(t, store.Moderators().Create(ctx, m))
	u := usage.NewBottleUsage(m.ID, clock.Today(), nil)
	u.Remaining = 4
	_, err := store.Usage().InsertIfAbsent(ctx, u)
	require.NoError(t, err)

	sent, err := NewReminder(store.Usage(), store.Moderators(), nil, clock).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}
