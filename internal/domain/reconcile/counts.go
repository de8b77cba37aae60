// Package reconcile holds the bottle and balance arithmetic shared by every
// ledger mutation. It is pure: no storage, no clocks, no logging.
package reconcile

import (
	"aquaops/internal/core/apperror"
	"aquaops/internal/core/types"
)

// Counts are the values a delivery or miscellaneous record carries.
type Counts struct {
	Filled  int64       `db:"filled_bottles" json:"filledBottles"`
	Empty   int64       `db:"empty_bottles" json:"emptyBottles"`
	Damaged int64       `db:"damaged_bottles" json:"damagedBottles"`
	FOC     int64       `db:"foc" json:"foc"`
	Payment types.Money `db:"payment" json:"payment"`
}

// Validate checks submitted counts before any ledger state is read.
func (c Counts) Validate() error {
	checks := []struct {
		field string
		value int64
	}{
		{"filled_bottles", c.Filled},
		{"empty_bottles", c.Empty},
		{"damaged_bottles", c.Damaged},
		{"foc", c.FOC},
	}
	for _, ch := range checks {
		if ch.value < 0 {
			return apperror.NewFieldValidation(ch.field, ch.value)
		}
	}
	if c.Payment.IsNegative() {
		return apperror.NewFieldValidation("payment", c.Payment.String())
	}
	if c.FOC > c.Filled {
		return apperror.NewValidation("foc cannot exceed filled bottles").
			WithDetail("field", "foc").
			WithDetail("value", c.FOC).
			WithDetail("filled_bottles", c.Filled)
	}
	return nil
}

// Bill is the amount charged for the counts at price.
func (c Counts) Bill(price types.Money) types.Money {
	return Bill(c.Filled, c.FOC, price)
}

// Bill computes (filled - foc) * price. FOC bottles are free.
func Bill(filled, foc int64, price types.Money) types.Money {
	return types.Bottles(filled-foc, price)
}

// Delta is new - old for every field of Counts.
type Delta struct {
	Filled  int64
	Empty   int64
	Damaged int64
	FOC     int64
	Payment types.Money
}

// Diff returns the signed change from old to new.
func Diff(old, new Counts) Delta {
	return Delta{
		Filled:  new.Filled - old.Filled,
		Empty:   new.Empty - old.Empty,
		Damaged: new.Damaged - old.Damaged,
		FOC:     new.FOC - old.FOC,
		Payment: new.Payment.Sub(old.Payment),
	}
}

// Creation is the delta of recording c from nothing.
func Creation(c Counts) Delta {
	return Diff(Counts{Payment: types.Zero()}, c)
}

// Reversal is the delta that removes a recorded c.
func Reversal(c Counts) Delta {
	return Diff(c, Counts{Payment: types.Zero()})
}

// Neg flips every component.
func (d Delta) Neg() Delta {
	return Delta{
		Filled:  -d.Filled,
		Empty:   -d.Empty,
		Damaged: -d.Damaged,
		FOC:     -d.FOC,
		Payment: d.Payment.Neg(),
	}
}

// IsZero reports whether applying d changes nothing.
func (d Delta) IsZero() bool {
	return d.Filled == 0 && d.Empty == 0 && d.Damaged == 0 && d.FOC == 0 && d.Payment.IsZero()
}

// BillDelta is the change of the billed amount at price.
func (d Delta) BillDelta(price types.Money) types.Money {
	return Bill(d.Filled, d.FOC, price)
}

// BalanceDelta is the change of the customer's balance: bill delta minus payment delta.
func (d Delta) BalanceDelta(price types.Money) types.Money {
	return d.BillDelta(price).Sub(d.Payment)
}

// BottlesDelta is the change of bottles held by the customer.
func (d Delta) BottlesDelta() int64 {
	return d.Filled - d.Empty
}
