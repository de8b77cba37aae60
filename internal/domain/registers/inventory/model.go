// Package inventory provides the global bottle inventory register (TotalBottles).
package inventory

import (
	"aquaops/internal/core/entity"
	"aquaops/internal/domain/reconcile"
)

// TotalBottles is the single row of global bottle counters.
type TotalBottles struct {
	entity.BaseEntity
	reconcile.StockCounters
}

// NewTotalBottles creates the initial inventory: every bottle is available.
func NewTotalBottles(total, deposit int64) *TotalBottles {
	return &TotalBottles{
		BaseEntity: entity.NewBaseEntity(),
		StockCounters: reconcile.StockCounters{
			Total:     total,
			Available: total,
			Deposit:   deposit,
		},
	}
}

// SetupInput initialises the inventory.
type SetupInput struct {
	Total   int64 `json:"totalBottles"`
	Deposit int64 `json:"depositBottles"`
}

// EditInput is an administrator correction of the counters.
// Version must match the stored row.
type EditInput struct {
	Total     int64 `json:"totalBottles"`
	Available int64 `json:"availableBottles"`
	Used      int64 `json:"usedBottles"`
	Deposit   int64 `json:"depositBottles"`
	Version   int   `json:"version"`
}
