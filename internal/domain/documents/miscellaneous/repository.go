package miscellaneous

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
)

// Repository defines the interface for Miscellaneous persistence.
type Repository interface {
	Create(ctx context.Context, m *Miscellaneous) error
	GetByID(ctx context.Context, id id.ID) (*Miscellaneous, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Miscellaneous, error)
	Update(ctx context.Context, m *Miscellaneous) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Miscellaneous], error)
	ExistsForModeratorDay(ctx context.Context, moderatorID id.ID, day types.Day) (bool, error)
}
