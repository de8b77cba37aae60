package dto

import (
	"aquaops/internal/domain/registers/inventory"
)

// SetupInventoryRequest initialises the bottle inventory.
type SetupInventoryRequest struct {
	TotalBottles   int64 `json:"totalBottles" binding:"min=0"`
	DepositBottles int64 `json:"depositBottles" binding:"min=0"`
}

// ToInput converts the request.
func (r SetupInventoryRequest) ToInput() inventory.SetupInput {
	return inventory.SetupInput{Total: r.TotalBottles, Deposit: r.DepositBottles}
}

// BottleCountRequest carries a bottle quantity for add and damage operations.
type BottleCountRequest struct {
	Bottles int64 `json:"bottles" binding:"required,min=1"`
}

// EditInventoryRequest is an administrator correction of the counters.
type EditInventoryRequest struct {
	TotalBottles     int64 `json:"totalBottles" binding:"min=0"`
	AvailableBottles int64 `json:"availableBottles" binding:"min=0"`
	UsedBottles      int64 `json:"usedBottles" binding:"min=0"`
	DepositBottles   int64 `json:"depositBottles" binding:"min=0"`
	Version          int   `json:"version" binding:"required,min=1"`
}

// ToInput converts the request.
func (r EditInventoryRequest) ToInput() inventory.EditInput {
	return inventory.EditInput{
		Total:     r.TotalBottles,
		Available: r.AvailableBottles,
		Used:      r.UsedBottles,
		Deposit:   r.DepositBottles,
		Version:   r.Version,
	}
}
