// Package expense provides OtherExpense records: money a moderator spent
// during a round (fuel, repairs, meals).
package expense

import (
	"context"
	"strings"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

// OtherExpense is one expense of a moderator on a day.
type OtherExpense struct {
	entity.Document

	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`
}

// Validate implements entity.Validatable.
func (e *OtherExpense) Validate(_ context.Context) error {
	if id.IsNil(e.ModeratorID) {
		return apperror.NewValidation("moderator is required").WithDetail("field", "moderatorId")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewFieldValidation("amount", e.Amount.String())
	}
	if strings.TrimSpace(e.Description) == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	return nil
}

// CreateInput records an expense. Day defaults to today; only
// administrators may record other days.
type CreateInput struct {
	ModeratorID id.ID       `json:"moderatorId"`
	Day         types.Day   `json:"day"`
	Amount      types.Money `json:"amount"`
	Description string      `json:"description"`
}

// UpdateInput replaces amount and description.
type UpdateInput struct {
	Amount      types.Money `json:"amount"`
	Description string      `json:"description"`
	Version     int         `json:"version"`
}
