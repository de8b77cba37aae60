// Package tx declares the transaction boundary used by ledger services.
// Storage backends implement it; services never see a driver type.
package tx

import (
	"context"
)

// Manager runs a unit of work atomically. Every ledger mutation goes through
// one RunInTransaction call.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back otherwise.
	// A call made with a context that already carries a transaction joins it.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds consistent multi-query reads, used by reports.
type ReadOnlyManager interface {
	Manager

	// ReadOnly runs fn against one snapshot.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Read runs fn in a read-only transaction of m and returns its result.
func Read[T any](ctx context.Context, m ReadOnlyManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := m.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
