package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestBill_FOCIsFree(t *testing.T) {
	assert.True(t, money("400").Equal(Bill(5, 1, money("100"))))
	assert.True(t, money("0").Equal(Bill(3, 3, money("100"))))
}

func TestDiff(t *testing.T) {
	old := Counts{Filled: 5, Empty: 2, Damaged: 0, FOC: 1, Payment: money("300")}
	upd := Counts{Filled: 7, Empty: 1, Damaged: 1, FOC: 1, Payment: money("250")}

	d := Diff(old, upd)

	assert.Equal(t, int64(2), d.Filled)
	assert.Equal(t, int64(-1), d.Empty)
	assert.Equal(t, int64(1), d.Damaged)
	assert.Equal(t, int64(0), d.FOC)
	assert.True(t, money("-50").Equal(d.Payment))
	assert.True(t, Diff(old, old).IsZero())
	rev, neg := Reversal(old), Creation(old).Neg()
	assert.Equal(t, rev.Filled, neg.Filled)
	assert.Equal(t, rev.FOC, neg.FOC)
	assert.True(t, rev.Payment.Equal(neg.Payment))
}

func TestCounts_Validate(t *testing.T) {
	require.NoError(t, Counts{Filled: 2, FOC: 2, Payment: money("0")}.Validate())

	err := Counts{Filled: -1}.Validate()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "filled_bottles", appErr.Details["field"])

	assert.Error(t, Counts{Filled: 1, FOC: 2}.Validate())
	assert.Error(t, Counts{Payment: money("-1")}.Validate())
}

// Scenario B: balance 500, price 100, delivery filled 5 foc 1 payment 300.
func TestApplyTransaction_CustomerBalance(t *testing.T) {
	acc := &Account{Balance: money("500"), Bottles: 0}
	usage := &UsageCounters{Remaining: 10}
	l := Ledger{Usage: usage, Account: acc}

	l.ApplyTransaction(Creation(Counts{Filled: 5, FOC: 1, Payment: money("300")}), money("100"))

	assert.True(t, money("600").Equal(acc.Balance), "got %s", acc.Balance)
	assert.Equal(t, int64(5), acc.Bottles)
	assert.Equal(t, int64(5), usage.Sales)
	assert.Equal(t, int64(5), usage.Remaining)
}

func TestApplyTransaction_EmptiesAndDamage(t *testing.T) {
	usage := &UsageCounters{Remaining: 10, Empty: 1}
	stock := &StockCounters{Total: 100, Available: 50, Used: 20}
	acc := &Account{Balance: money("0"), Bottles: 6}
	l := Ledger{Usage: usage, Stock: stock, Account: acc}

	l.ApplyTransaction(Creation(Counts{Filled: 2, Empty: 3, Damaged: 1}), money("10"))

	assert.Equal(t, int64(4), usage.Empty)
	assert.Equal(t, int64(1), stock.Damaged)
	assert.Equal(t, int64(49), stock.Available)
	assert.Equal(t, int64(5), acc.Bottles)
	require.NoError(t, l.Validate())
}

// For every edit the balance moves by bill delta minus payment delta.
func TestBalanceDeltaProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomCounts := func() Counts {
		filled := rng.Int63n(50)
		return Counts{
			Filled:  filled,
			Empty:   rng.Int63n(50),
			Damaged: rng.Int63n(5),
			FOC:     rng.Int63n(filled + 1),
			Payment: types.MoneyFromInt(rng.Int63n(5000)),
		}
	}

	for i := 0; i < 500; i++ {
		price := types.MoneyFromInt(rng.Int63n(200) + 1)
		old, upd := randomCounts(), randomCounts()
		start := types.MoneyFromInt(rng.Int63n(10000) - 5000)

		acc := &Account{Balance: start}
		Ledger{Account: acc}.ApplyTransaction(Diff(old, upd), price)

		billDelta := Bill(upd.Filled, upd.FOC, price).Sub(Bill(old.Filled, old.FOC, price))
		paymentDelta := upd.Payment.Sub(old.Payment)
		want := start.Add(billDelta).Sub(paymentDelta)
		require.True(t, want.Equal(acc.Balance), "iteration %d: want %s got %s", i, want, acc.Balance)
	}
}

// Applying a record and its reversal restores every counter exactly.
func TestCreationThenReversal_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		usage := UsageCounters{Filled: 100, Remaining: 100, Sales: 3, Empty: 4}
		stock := StockCounters{Total: 1000, Available: 800, Used: 100}
		acc := Account{Balance: types.MoneyFromInt(rng.Int63n(1000)), Bottles: rng.Int63n(30)}
		u, s, a := usage, stock, acc

		filled := rng.Int63n(100)
		c := Counts{Filled: filled, Empty: rng.Int63n(20), Damaged: rng.Int63n(5), FOC: rng.Int63n(filled + 1), Payment: types.MoneyFromInt(rng.Int63n(900))}
		price := types.MoneyFromInt(rng.Int63n(150) + 1)

		l := Ledger{Usage: &u, Stock: &s, Account: &a}
		l.ApplyTransaction(Creation(c), price)
		l.ApplyTransaction(Reversal(c), price)

		assert.Equal(t, usage, u)
		assert.Equal(t, stock, s)
		assert.True(t, acc.Balance.Equal(a.Balance))
		assert.Equal(t, acc.Bottles, a.Bottles)
	}
}

// Scenario A: take 100 filled bottles out of 1000 available.
func TestApplyTake(t *testing.T) {
	stock := &StockCounters{Total: 1000, Available: 1000}
	usage := &UsageCounters{}
	l := Ledger{Usage: usage, Stock: stock}

	require.NoError(t, CheckTake(*stock, 100))
	l.ApplyTake(100, 20)
	require.NoError(t, l.Validate())

	assert.Equal(t, int64(100), usage.Filled)
	assert.Equal(t, int64(100), usage.Remaining)
	assert.Equal(t, int64(20), usage.Caps)
	assert.Equal(t, int64(900), stock.Available)
	assert.Equal(t, int64(100), stock.Used)

	err := CheckTake(*stock, 901)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
}

// Scenario C: 150 filled requested, 100 remaining.
func TestCheckDeliverable(t *testing.T) {
	err := CheckDeliverable(UsageCounters{Remaining: 100}, 150)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(150), appErr.Details["requested"])
	assert.Equal(t, int64(100), appErr.Details["available"])

	assert.NoError(t, CheckDeliverable(UsageCounters{Remaining: 100}, 100))
	assert.NoError(t, CheckDeliverable(UsageCounters{Remaining: 0}, -3))
}

// Scenario D: returning 10 empties while holding 5.
func TestCheckReturn(t *testing.T) {
	held := UsageCounters{Empty: 5, Remaining: 8, Caps: 2}

	err := CheckReturn(held, Returned{Empty: 10})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.True(t, apperror.HasCode(CheckReturn(held, Returned{Remaining: 9}), apperror.CodeInsufficientStock))
	assert.True(t, apperror.HasCode(CheckReturn(held, Returned{Caps: 3}), apperror.CodeInsufficientStock))
	assert.True(t, apperror.HasCode(CheckReturn(held, Returned{Empty: -1}), apperror.CodeValidation))
	assert.NoError(t, CheckReturn(held, Returned{Empty: 5, Remaining: 8, Caps: 2}))
}

func TestApplyReturn(t *testing.T) {
	usage := &UsageCounters{Filled: 100, Sales: 80, Empty: 30, Remaining: 20, Caps: 5}
	stock := &StockCounters{Total: 1000, Available: 900, Used: 100}
	l := Ledger{Usage: usage, Stock: stock}

	l.ApplyReturn(Returned{Empty: 30, Remaining: 20, Caps: 5})
	require.NoError(t, l.Validate())

	assert.Equal(t, UsageCounters{Filled: 100, Sales: 80, Returned: 50}, *usage)
	assert.Equal(t, int64(950), stock.Available)
	assert.Equal(t, int64(50), stock.Used)
}

func TestValidate_NamesOffendingField(t *testing.T) {
	l := Ledger{
		Usage:   &UsageCounters{Remaining: -2},
		Account: &Account{Balance: money("-100")},
	}
	err := l.Validate()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "remaining_bottles", appErr.Details["field"])
	assert.Equal(t, int64(-2), appErr.Details["value"])

	// Negative balance is customer credit, not an error.
	assert.NoError(t, Ledger{Account: &Account{Balance: money("-100")}}.Validate())

	assert.Error(t, Ledger{Account: &Account{Bottles: -1}}.Validate())
	assert.Error(t, Ledger{Stock: &StockCounters{Total: 10, Available: 6, Used: 5}}.Validate())
}

func TestValidateInventoryEdit(t *testing.T) {
	assert.NoError(t, ValidateInventoryEdit(StockCounters{Total: 100, Available: 60, Used: 40}))

	cases := map[string]StockCounters{
		"available_bottles":              {Total: 100, Available: 101},
		"used_bottles":                   {Total: 100, Used: 101},
		"available_bottles+used_bottles": {Total: 100, Available: 60, Used: 41},
		"damaged_bottles":                {Total: 100, Damaged: -1},
	}
	for want, s := range cases {
		appErr, ok := apperror.AsAppError(ValidateInventoryEdit(s))
		if assert.True(t, ok, want) {
			assert.Equal(t, want, appErr.Details["field"])
		}
	}
}

func TestStockMutators(t *testing.T) {
	s := StockCounters{Total: 100, Available: 100}
	s.ApplyPurchase(20)
	s.ApplyDamage(5)
	s.ApplyDeposit(3)
	assert.Equal(t, StockCounters{Total: 120, Available: 115, Damaged: 5, Deposit: 3}, s)

	ledger := Ledger{Stock: &s}
	ledger.ApplyTake(15, 0)
	ledger.ApplyReset(UsageCounters{Filled: 15})
	assert.Equal(t, int64(115), s.Available)
	assert.Equal(t, int64(0), s.Used)
}
