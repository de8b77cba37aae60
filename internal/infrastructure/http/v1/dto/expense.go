package dto

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/documents/expense"
)

// CreateExpenseRequest is the request body for recording an expense.
type CreateExpenseRequest struct {
	ModeratorID id.ID       `json:"moderatorId"`
	Day         types.Day   `json:"day"`
	Amount      types.Money `json:"amount"`
	Description string      `json:"description" binding:"required"`
}

// ToInput converts the request.
func (r CreateExpenseRequest) ToInput() expense.CreateInput {
	return expense.CreateInput{
		ModeratorID: r.ModeratorID,
		Day:         r.Day,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// UpdateExpenseRequest is the request body for correcting an expense.
type UpdateExpenseRequest struct {
	Amount      types.Money `json:"amount"`
	Description string      `json:"description" binding:"required"`
	Version     int         `json:"version" binding:"required,min=1"`
}

// ToInput converts the request.
func (r UpdateExpenseRequest) ToInput() expense.UpdateInput {
	return expense.UpdateInput{Amount: r.Amount, Description: r.Description, Version: r.Version}
}
