package inventory

import (
	"context"
)

// Reader serves the current inventory snapshot outside transactions.
type Reader interface {
	Get(ctx context.Context) (*TotalBottles, error)
}

// Repository persists the TotalBottles row.
type Repository interface {
	Reader

	// GetForUpdate locks the row for the running transaction.
	GetForUpdate(ctx context.Context) (*TotalBottles, error)

	// Create inserts the row. Fails with a conflict if it already exists.
	Create(ctx context.Context, tb *TotalBottles) error

	// Update writes the counters if the stored version equals tb.Version,
	// then increments tb.Version.
	Update(ctx context.Context, tb *TotalBottles) error
}
