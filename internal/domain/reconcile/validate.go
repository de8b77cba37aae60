package reconcile

import (
	"aquaops/internal/core/apperror"
)

type field struct {
	name  string
	value int64
}

func (u *UsageCounters) fields() []field {
	return []field{
		{"filled_bottles", u.Filled},
		{"sales", u.Sales},
		{"empty_bottles", u.Empty},
		{"remaining_bottles", u.Remaining},
		{"returned_bottles", u.Returned},
		{"caps", u.Caps},
	}
}

func (s *StockCounters) fields() []field {
	return []field{
		{"total_bottles", s.Total},
		{"available_bottles", s.Available},
		{"used_bottles", s.Used},
		{"damaged_bottles", s.Damaged},
		{"deposit_bottles", s.Deposit},
	}
}

// Validate rejects a post-state in which any counter went negative or the
// live pool outgrew the inventory. The customer balance may be negative.
func (l Ledger) Validate() error {
	var fs []field
	if l.Usage != nil {
		fs = append(fs, l.Usage.fields()...)
	}
	if l.Stock != nil {
		fs = append(fs, l.Stock.fields()...)
	}
	if l.Account != nil {
		fs = append(fs, field{"customer_bottles", l.Account.Bottles})
	}
	for _, f := range fs {
		if f.value < 0 {
			return apperror.NewFieldValidation(f.name, f.value)
		}
	}
	if l.Stock != nil {
		if err := l.Stock.checkPool(); err != nil {
			return err
		}
	}
	return nil
}

func (s *StockCounters) checkPool() error {
	if s.Available+s.Used > s.Total {
		return apperror.NewFieldValidation("available_bottles+used_bottles", s.Available+s.Used).
			WithDetail("total_bottles", s.Total)
	}
	return nil
}

// CheckDeliverable fails when a moderator is asked to hand out more filled
// bottles than they still hold. Non-positive requests always pass.
func CheckDeliverable(u UsageCounters, filled int64) error {
	if filled > u.Remaining {
		return apperror.NewInsufficientStock("remaining_bottles", filled, u.Remaining)
	}
	return nil
}

// CheckTake fails when the plant has fewer available bottles than requested.
func CheckTake(s StockCounters, filled int64) error {
	if filled > s.Available {
		return apperror.NewInsufficientStock("available_bottles", filled, s.Available)
	}
	return nil
}

// CheckReturn fails when a moderator returns more than they hold.
func CheckReturn(u UsageCounters, r Returned) error {
	if r.Empty < 0 {
		return apperror.NewFieldValidation("empty_bottles", r.Empty)
	}
	if r.Remaining < 0 {
		return apperror.NewFieldValidation("remaining_bottles", r.Remaining)
	}
	if r.Caps < 0 {
		return apperror.NewFieldValidation("caps", r.Caps)
	}
	if r.Empty > u.Empty {
		return apperror.NewInsufficientStock("empty_bottles", r.Empty, u.Empty)
	}
	if r.Remaining > u.Remaining {
		return apperror.NewInsufficientStock("remaining_bottles", r.Remaining, u.Remaining)
	}
	if r.Caps > u.Caps {
		return apperror.NewInsufficientStock("caps", r.Caps, u.Caps)
	}
	return nil
}

// ValidateInventoryEdit checks an administrator's direct correction of the totals.
func ValidateInventoryEdit(s StockCounters) error {
	for _, f := range s.fields() {
		if f.value < 0 {
			return apperror.NewFieldValidation(f.name, f.value)
		}
	}
	if s.Available > s.Total {
		return apperror.NewFieldValidation("available_bottles", s.Available).
			WithDetail("total_bottles", s.Total)
	}
	if s.Used > s.Total {
		return apperror.NewFieldValidation("used_bottles", s.Used).
			WithDetail("total_bottles", s.Total)
	}
	return s.checkPool()
}
