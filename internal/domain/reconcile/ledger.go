package reconcile

import (
	"aquaops/internal/core/types"
)

// UsageCounters are the per moderator, per day bottle counters.
type UsageCounters struct {
	Filled    int64 `db:"filled_bottles" json:"filledBottles"`
	Sales     int64 `db:"sales" json:"sales"`
	Empty     int64 `db:"empty_bottles" json:"emptyBottles"`
	Remaining int64 `db:"remaining_bottles" json:"remainingBottles"`
	Returned  int64 `db:"returned_bottles" json:"returnedBottles"`
	Caps      int64 `db:"caps" json:"caps"`
}

// StockCounters are the global bottle inventory counters.
type StockCounters struct {
	Total     int64 `db:"total_bottles" json:"totalBottles"`
	Available int64 `db:"available_bottles" json:"availableBottles"`
	Used      int64 `db:"used_bottles" json:"usedBottles"`
	Damaged   int64 `db:"damaged_bottles" json:"damagedBottles"`
	Deposit   int64 `db:"deposit_bottles" json:"depositBottles"`
}

// Account is the customer side of the ledger.
type Account struct {
	Balance types.Money `db:"balance" json:"balance"`
	Bottles int64       `db:"bottles" json:"bottles"`
}

// Returned is what a moderator hands back at the end of a round.
type Returned struct {
	Empty     int64 `json:"emptyBottles"`
	Remaining int64 `json:"remainingBottles"`
	Caps      int64 `json:"caps"`
}

// Ledger points at the entities touched by one mutation. Nil parts are
// not involved and are left alone by Apply and Validate.
type Ledger struct {
	Usage   *UsageCounters
	Stock   *StockCounters
	Account *Account
}

// ApplyTransaction applies a delivery or miscellaneous delta priced at price.
func (l Ledger) ApplyTransaction(d Delta, price types.Money) {
	if l.Usage != nil {
		l.Usage.Sales += d.Filled
		l.Usage.Remaining -= d.Filled
		l.Usage.Empty += d.Empty
	}
	if l.Stock != nil {
		l.Stock.Damaged += d.Damaged
		l.Stock.Available -= d.Damaged
	}
	if l.Account != nil {
		l.Account.Balance = l.Account.Balance.Add(d.BalanceDelta(price))
		l.Account.Bottles += d.BottlesDelta()
	}
}

// ApplyTake moves filled bottles from the plant to a moderator.
func (l Ledger) ApplyTake(filled, caps int64) {
	if l.Stock != nil {
		l.Stock.Available -= filled
		l.Stock.Used += filled
	}
	if l.Usage != nil {
		l.Usage.Filled += filled
		l.Usage.Remaining += filled
		l.Usage.Caps += caps
	}
}

// ApplyReturn moves empty and undelivered bottles from a moderator back to the plant.
func (l Ledger) ApplyReturn(r Returned) {
	back := r.Empty + r.Remaining
	if l.Usage != nil {
		l.Usage.Empty -= r.Empty
		l.Usage.Remaining -= r.Remaining
		l.Usage.Caps -= r.Caps
		l.Usage.Returned += back
	}
	if l.Stock != nil {
		l.Stock.Available += back
		l.Stock.Used -= back
	}
}

// ApplyReset undoes the day's take when a usage record is discarded.
func (l Ledger) ApplyReset(u UsageCounters) {
	if l.Stock != nil {
		l.Stock.Available += u.Filled
		l.Stock.Used -= u.Filled
	}
}

// ApplyDamage writes off bottles from the available pool.
func (s *StockCounters) ApplyDamage(n int64) {
	s.Damaged += n
	s.Available -= n
}

// ApplyPurchase adds newly bought bottles to the pool.
func (s *StockCounters) ApplyPurchase(n int64) {
	s.Total += n
	s.Available += n
}

// ApplyDeposit tracks a change of bottles held on deposit by customers.
func (s *StockCounters) ApplyDeposit(d int64) {
	s.Deposit += d
}
