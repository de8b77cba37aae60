package dto

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/reconcile"
)

// CountsRequest holds the bottle counts and payment of a sale.
// Range checks beyond non-negativity happen in the domain.
type CountsRequest struct {
	FilledBottles  int64       `json:"filledBottles" binding:"min=0"`
	EmptyBottles   int64       `json:"emptyBottles" binding:"min=0"`
	DamagedBottles int64       `json:"damagedBottles" binding:"min=0"`
	FOC            int64       `json:"foc" binding:"min=0"`
	Payment        types.Money `json:"payment"`
}

// Counts converts the request.
func (r CountsRequest) Counts() reconcile.Counts {
	return reconcile.Counts{
		Filled:  r.FilledBottles,
		Empty:   r.EmptyBottles,
		Damaged: r.DamagedBottles,
		FOC:     r.FOC,
		Payment: r.Payment,
	}
}

// CreateDeliveryRequest is the request body for recording a delivery.
type CreateDeliveryRequest struct {
	CountsRequest
	CustomerID  id.ID  `json:"customerId"`
	ModeratorID id.ID  `json:"moderatorId"`
	Comment     string `json:"comment"`
}

// ToInput converts the request.
func (r CreateDeliveryRequest) ToInput() delivery.CreateInput {
	return delivery.CreateInput{
		CustomerID:  r.CustomerID,
		ModeratorID: r.ModeratorID,
		Counts:      r.Counts(),
		Comment:     r.Comment,
	}
}

// UpdateDeliveryRequest is the request body for correcting a delivery.
type UpdateDeliveryRequest struct {
	CountsRequest
	Comment string `json:"comment"`
	Version int    `json:"version" binding:"required,min=1"`
}

// ToInput converts the request.
func (r UpdateDeliveryRequest) ToInput() delivery.UpdateInput {
	return delivery.UpdateInput{Counts: r.Counts(), Comment: r.Comment, Version: r.Version}
}
