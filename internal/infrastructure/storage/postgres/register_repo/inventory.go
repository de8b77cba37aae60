// Package register_repo provides PostgreSQL implementations for the bottle registers.
package register_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"aquaops/internal/core/apperror"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/infrastructure/storage/postgres"
)

const totalBottlesTable = "total_bottles"

// InventoryRepo implements inventory.Repository on the singleton total_bottles row.
type InventoryRepo struct {
	table *postgres.Table[inventory.TotalBottles, *inventory.TotalBottles]
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txManager *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		table: postgres.NewTable[inventory.TotalBottles](txManager, totalBottlesTable, ledger.EntityTotalBottles),
	}
}

func (r *InventoryRepo) Get(ctx context.Context) (*inventory.TotalBottles, error) {
	return r.table.Get(ctx, squirrel.Eq{"singleton": true}, "singleton", false)
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context) (*inventory.TotalBottles, error) {
	return r.table.Get(ctx, squirrel.Eq{"singleton": true}, "singleton", true)
}

// Create inserts the singleton. The unique singleton column rejects a second row.
func (r *InventoryRepo) Create(ctx context.Context, tb *inventory.TotalBottles) error {
	err := r.table.Insert(ctx, tb)
	if apperror.HasCode(err, apperror.CodeDuplicate) {
		return apperror.NewConflict("inventory is already set up")
	}
	return err
}

func (r *InventoryRepo) Update(ctx context.Context, tb *inventory.TotalBottles) error {
	return r.table.Update(ctx, tb)
}
