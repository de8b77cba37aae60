package usage

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
)

// Repository persists BottleUsage rows keyed by (moderator_id, day).
type Repository interface {
	// InsertIfAbsent inserts u unless a row for the same key exists.
	// It reports whether u was inserted.
	InsertIfAbsent(ctx context.Context, u *BottleUsage) (bool, error)

	Get(ctx context.Context, moderatorID id.ID, day types.Day) (*BottleUsage, error)

	// GetForUpdate locks the row for the running transaction.
	GetForUpdate(ctx context.Context, moderatorID id.ID, day types.Day) (*BottleUsage, error)

	// LatestBefore returns the moderator's most recent record strictly
	// before day, or nil when there is none.
	LatestBefore(ctx context.Context, moderatorID id.ID, day types.Day) (*BottleUsage, error)

	// Update writes u if the stored version equals u.Version, then bumps it.
	Update(ctx context.Context, u *BottleUsage) error

	Delete(ctx context.Context, usageID id.ID) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*BottleUsage], error)

	ExistsForModerator(ctx context.Context, moderatorID id.ID) (bool, error)

	// ExistsAfter reports whether the moderator has a record for a day
	// later than day.
	ExistsAfter(ctx context.Context, moderatorID id.ID, day types.Day) (bool, error)
}
