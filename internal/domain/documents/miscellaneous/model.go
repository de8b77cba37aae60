// Package miscellaneous provides walk-in sales that are not tied to a customer.
package miscellaneous

import (
	"context"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reconcile"
)

// DefaultPrefix is the receipt prefix for miscellaneous transactions.
const DefaultPrefix = "MSC"

// Miscellaneous is a sale recorded without a customer account.
type Miscellaneous struct {
	entity.Document
	reconcile.Counts

	// Buyer is a free-text name for the walk-in buyer.
	Buyer       string      `db:"buyer" json:"buyer,omitempty"`
	BottlePrice types.Money `db:"bottle_price" json:"bottlePrice"`
	Bill        types.Money `db:"bill" json:"bill"`
}

// NewMiscellaneous creates a record priced at price.
func NewMiscellaneous(doc entity.Document, buyer string, counts reconcile.Counts, price types.Money) *Miscellaneous {
	m := &Miscellaneous{
		Document:    doc,
		Counts:      counts,
		Buyer:       buyer,
		BottlePrice: price,
	}
	m.Bill = counts.Bill(price)
	return m
}

// SetCounts replaces the counts and recomputes the bill.
func (m *Miscellaneous) SetCounts(c reconcile.Counts) {
	m.Counts = c
	m.Bill = c.Bill(m.BottlePrice)
}

// Validate implements entity.Validatable.
func (m *Miscellaneous) Validate(_ context.Context) error {
	if id.IsNil(m.ModeratorID) {
		return apperror.NewValidation("moderator is required").WithDetail("field", "moderatorId")
	}
	if m.BottlePrice.IsNegative() {
		return apperror.NewFieldValidation("bottle_price", m.BottlePrice.String())
	}
	return m.Counts.Validate()
}

// CreateInput records a miscellaneous sale.
type CreateInput struct {
	ModeratorID id.ID            `json:"moderatorId"`
	Buyer       string           `json:"buyer"`
	BottlePrice types.Money      `json:"bottlePrice"`
	Counts      reconcile.Counts `json:"counts"`
	Comment     string           `json:"comment"`
}

// UpdateInput replaces the counts of a same-day record. The price is fixed.
type UpdateInput struct {
	Buyer   string           `json:"buyer"`
	Counts  reconcile.Counts `json:"counts"`
	Comment string           `json:"comment"`
	Version int              `json:"version"`
}
