package dto

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/documents/miscellaneous"
)

// CreateMiscellaneousRequest is the request body for a walk-in sale.
type CreateMiscellaneousRequest struct {
	CountsRequest
	ModeratorID id.ID       `json:"moderatorId"`
	Buyer       string      `json:"buyer"`
	BottlePrice types.Money `json:"bottlePrice"`
	Comment     string      `json:"comment"`
}

// ToInput converts the request.
func (r CreateMiscellaneousRequest) ToInput() miscellaneous.CreateInput {
	return miscellaneous.CreateInput{
		ModeratorID: r.ModeratorID,
		Buyer:       r.Buyer,
		BottlePrice: r.BottlePrice,
		Counts:      r.Counts(),
		Comment:     r.Comment,
	}
}

// UpdateMiscellaneousRequest is the request body for correcting a walk-in sale.
type UpdateMiscellaneousRequest struct {
	CountsRequest
	Buyer   string `json:"buyer"`
	Comment string `json:"comment"`
	Version int    `json:"version" binding:"required,min=1"`
}

// ToInput converts the request.
func (r UpdateMiscellaneousRequest) ToInput() miscellaneous.UpdateInput {
	return miscellaneous.UpdateInput{
		Buyer:   r.Buyer,
		Counts:  r.Counts(),
		Comment: r.Comment,
		Version: r.Version,
	}
}
