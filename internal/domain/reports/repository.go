package reports

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

// Repository defines report data access interface.
// A nil moderatorID aggregates every moderator.
type Repository interface {
	DeliveryTotals(ctx context.Context, day types.Day, moderatorID *id.ID) ([]SalesTotals, error)
	MiscellaneousTotals(ctx context.Context, day types.Day, moderatorID *id.ID) ([]SalesTotals, error)
	ExpenseTotals(ctx context.Context, day types.Day, moderatorID *id.ID) ([]ExpenseTotals, error)
}
