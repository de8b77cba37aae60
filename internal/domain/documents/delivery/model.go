// Package delivery provides the Delivery document: bottles handed to a
// customer, bottles collected and money received.
package delivery

import (
	"context"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reconcile"
)

// Delivery is one visit of a moderator to a customer.
type Delivery struct {
	entity.Document
	reconcile.Counts

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// BottlePrice is the customer's price when the delivery was recorded.
	// Later edits reconcile at this price.
	BottlePrice types.Money `db:"bottle_price" json:"bottlePrice"`

	// Bill is (filled - foc) * bottle_price.
	Bill types.Money `db:"bill" json:"bill"`
}

// NewDelivery creates a delivery priced at price.
func NewDelivery(doc entity.Document, customerID id.ID, counts reconcile.Counts, price types.Money) *Delivery {
	d := &Delivery{
		Document:    doc,
		Counts:      counts,
		CustomerID:  customerID,
		BottlePrice: price,
	}
	d.Bill = counts.Bill(price)
	return d
}

// SetCounts replaces the counts and recomputes the bill.
func (d *Delivery) SetCounts(c reconcile.Counts) {
	d.Counts = c
	d.Bill = c.Bill(d.BottlePrice)
}

// Validate implements entity.Validatable.
func (d *Delivery) Validate(_ context.Context) error {
	if id.IsNil(d.CustomerID) {
		return apperror.NewValidation("customer is required").WithDetail("field", "customerId")
	}
	if id.IsNil(d.ModeratorID) {
		return apperror.NewValidation("moderator is required").WithDetail("field", "moderatorId")
	}
	return d.Counts.Validate()
}

// CreateInput records a delivery. ModeratorID is only read for administrators.
type CreateInput struct {
	CustomerID  id.ID            `json:"customerId"`
	ModeratorID id.ID            `json:"moderatorId"`
	Counts      reconcile.Counts `json:"counts"`
	Comment     string           `json:"comment"`
}

// UpdateInput replaces the counts of a same-day delivery.
type UpdateInput struct {
	Counts  reconcile.Counts `json:"counts"`
	Comment string           `json:"comment"`
	Version int              `json:"version"`
}
