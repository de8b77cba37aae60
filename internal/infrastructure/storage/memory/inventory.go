package memory

import (
	"context"

	"aquaops/internal/core/apperror"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/inventory"
)

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	store *Store
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// Inventory returns the TotalBottles repository.
func (s *Store) Inventory() *InventoryRepo {
	return &InventoryRepo{store: s}
}

func (r *InventoryRepo) Get(_ context.Context) (*inventory.TotalBottles, error) {
	var out *inventory.TotalBottles
	r.store.read(func(st *state) {
		if st.totals != nil {
			tb := *st.totals
			out = &tb
		}
	})
	if out == nil {
		return nil, apperror.NewNotFound(ledger.EntityTotalBottles, "singleton")
	}
	return out, nil
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context) (*inventory.TotalBottles, error) {
	return r.Get(ctx)
}

func (r *InventoryRepo) Create(_ context.Context, tb *inventory.TotalBottles) error {
	return r.store.write(func(st *state) error {
		if st.totals != nil {
			return apperror.NewConflict("inventory is already set up")
		}
		cp := *tb
		st.totals = &cp
		return nil
	})
}

func (r *InventoryRepo) Update(_ context.Context, tb *inventory.TotalBottles) error {
	return r.store.write(func(st *state) error {
		if st.totals == nil {
			return apperror.NewNotFound(ledger.EntityTotalBottles, tb.ID)
		}
		if st.totals.Version != tb.Version {
			return apperror.NewConcurrentModification(ledger.EntityTotalBottles, tb.ID)
		}
		tb.Touch()
		cp := *tb
		st.totals = &cp
		return nil
	})
}
