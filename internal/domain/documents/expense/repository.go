package expense

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
)

// Repository defines the interface for OtherExpense persistence.
type Repository interface {
	Create(ctx context.Context, e *OtherExpense) error
	GetByID(ctx context.Context, id id.ID) (*OtherExpense, error)
	Update(ctx context.Context, e *OtherExpense) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*OtherExpense], error)
}
