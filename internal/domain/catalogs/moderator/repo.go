package moderator

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
)

// Repository defines the interface for Moderator persistence.
type Repository interface {
	Create(ctx context.Context, m *Moderator) error
	GetByID(ctx context.Context, id id.ID) (*Moderator, error)
	// Update writes m if the stored version equals m.Version, then bumps it.
	Update(ctx context.Context, m *Moderator) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Moderator], error)
	ExistsByPhone(ctx context.Context, phone string, exclude id.ID) (bool, error)
}
