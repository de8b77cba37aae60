package delivery

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
)

// Repository defines the interface for Delivery persistence.
type Repository interface {
	Create(ctx context.Context, d *Delivery) error
	GetByID(ctx context.Context, id id.ID) (*Delivery, error)
	// GetForUpdate locks the delivery row for the running transaction.
	GetForUpdate(ctx context.Context, id id.ID) (*Delivery, error)
	// Update writes d if the stored version equals d.Version, then bumps it.
	Update(ctx context.Context, d *Delivery) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Delivery], error)
	ExistsForCustomer(ctx context.Context, customerID id.ID) (bool, error)
	ExistsForModeratorDay(ctx context.Context, moderatorID id.ID, day types.Day) (bool, error)
}
