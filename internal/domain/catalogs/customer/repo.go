package customer

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id id.ID) (*Customer, error)
	// GetForUpdate locks the customer row for the running transaction.
	GetForUpdate(ctx context.Context, id id.ID) (*Customer, error)
	// Update writes c if the stored version equals c.Version, then bumps it.
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error)
}
