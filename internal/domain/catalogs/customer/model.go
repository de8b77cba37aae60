// Package customer provides the Customer catalog with its running balance
// and the bottles it holds.
package customer

import (
	"context"
	"strings"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reconcile"
)

// Customer is a delivery customer.
//
// Balance is signed: positive means the customer owes money, negative is
// advance credit. Bottles is the number of company bottles the customer holds.
type Customer struct {
	entity.BaseEntity
	reconcile.Account

	Name        string      `db:"name" json:"name"`
	Phone       string      `db:"phone" json:"phone"`
	Area        string      `db:"area" json:"area"`
	Address     string      `db:"address" json:"address"`
	ModeratorID *id.ID      `db:"moderator_id" json:"moderatorId,omitempty"`
	BottlePrice types.Money `db:"bottle_price" json:"bottlePrice"`
	Deposit     int64       `db:"deposit" json:"deposit"`
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(_ context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.BottlePrice.IsNegative() {
		return apperror.NewFieldValidation("bottle_price", c.BottlePrice.String())
	}
	if c.Deposit < 0 {
		return apperror.NewFieldValidation("deposit", c.Deposit)
	}
	if c.Bottles < 0 {
		return apperror.NewFieldValidation("customer_bottles", c.Bottles)
	}
	return nil
}

// CreateInput holds the fields of a new customer. Balance and Bottles are
// the opening position carried over from before the system was used.
type CreateInput struct {
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Area        string      `json:"area"`
	Address     string      `json:"address"`
	ModeratorID *id.ID      `json:"moderatorId"`
	BottlePrice types.Money `json:"bottlePrice"`
	Deposit     int64       `json:"deposit"`
	Balance     types.Money `json:"balance"`
	Bottles     int64       `json:"bottles"`
}

// NewCustomer builds a customer from input.
func NewCustomer(in CreateInput) *Customer {
	return &Customer{
		BaseEntity:  entity.NewBaseEntity(),
		Account:     reconcile.Account{Balance: in.Balance, Bottles: in.Bottles},
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Area:        strings.TrimSpace(in.Area),
		Address:     strings.TrimSpace(in.Address),
		ModeratorID: in.ModeratorID,
		BottlePrice: in.BottlePrice,
		Deposit:     in.Deposit,
	}
}

// UpdateInput replaces the profile fields. Balance and bottles only move
// through deliveries. Version must match.
type UpdateInput struct {
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Area        string      `json:"area"`
	Address     string      `json:"address"`
	ModeratorID *id.ID      `json:"moderatorId"`
	BottlePrice types.Money `json:"bottlePrice"`
	Deposit     int64       `json:"deposit"`
	Version     int         `json:"version"`
}
