package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/app"
	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/documents/expense"
	"aquaops/internal/domain/documents/miscellaneous"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/reconcile"
	"aquaops/internal/domain/registers/inventory"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/infrastructure/storage/memory"
)

type harness struct {
	t        *testing.T
	store    *memory.Store
	svc      *app.Services
	now      time.Time
	admin    context.Context
	mod      *moderator.Moderator
	modCtx   context.Context
	customer *customer.Customer
}

// newHarness sets up an inventory of 1000 bottles, one moderator and one
// customer priced at 100 with an opening balance of 500.
func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		store: memory.New(),
		now:   time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
	}
	h.svc = app.New(app.MemoryRepositories(h.store), app.Options{
		Now: func() time.Time { return h.now },
	})
	h.admin = appctx.WithActor(context.Background(), &appctx.Actor{ID: "admin-1", Role: appctx.RoleAdmin})

	_, err := h.svc.Inventory.Setup(h.admin, inventory.SetupInput{Total: 1000})
	require.NoError(t, err)

	h.mod, err = h.svc.Moderators.Create(h.admin, moderator.CreateInput{Name: "Ravi", Phone: "+971500000001", Areas: []string{"Marina"}})
	require.NoError(t, err)
	h.modCtx = appctx.WithActor(context.Background(), &appctx.Actor{ID: h.mod.ID.String(), Role: appctx.RoleModerator})

	h.customer, err = h.svc.Customers.Create(h.admin, customer.CreateInput{
		Name:        "Tower 7",
		Phone:       "+971500000100",
		Area:        "Marina",
		BottlePrice: types.MoneyFromInt(100),
		Balance:     types.MoneyFromInt(500),
	})
	require.NoError(t, err)
	return h
}

func (h *harness) stock() *inventory.TotalBottles {
	h.t.Helper()
	tb, err := h.svc.Inventory.Get(h.admin)
	require.NoError(h.t, err)
	return tb
}

func (h *harness) usage() *usage.BottleUsage {
	h.t.Helper()
	u, err := h.svc.Usage.Get(h.admin, h.mod.ID, h.svc.Clock.Today())
	require.NoError(h.t, err)
	return u
}

func (h *harness) reloadCustomer() *customer.Customer {
	h.t.Helper()
	c, err := h.svc.Customers.GetByID(h.admin, h.customer.ID)
	require.NoError(h.t, err)
	return c
}

func (h *harness) take(n int64) {
	h.t.Helper()
	_, err := h.svc.Usage.TakeFilled(h.modCtx, h.mod.ID, usage.TakeInput{Filled: n})
	require.NoError(h.t, err)
}

func (h *harness) deliver(c reconcile.Counts) *delivery.Delivery {
	h.t.Helper()
	d, err := h.svc.Deliveries.Create(h.modCtx, delivery.CreateInput{CustomerID: h.customer.ID, Counts: c})
	require.NoError(h.t, err)
	return d
}

func counts(filled, empty, foc int64, payment int64) reconcile.Counts {
	return reconcile.Counts{Filled: filled, Empty: empty, FOC: foc, Payment: types.MoneyFromInt(payment)}
}

func assertMoney(t *testing.T, want int64, got types.Money) {
	t.Helper()
	assert.True(t, types.MoneyFromInt(want).Equal(got), "want %d, got %s", want, got)
}

func TestTakeFilledMovesStockToModerator(t *testing.T) {
	h := newHarness(t)

	h.take(100)

	u := h.usage()
	assert.Equal(t, int64(100), u.Filled)
	assert.Equal(t, int64(100), u.Remaining)

	tb := h.stock()
	assert.Equal(t, int64(900), tb.Available)
	assert.Equal(t, int64(100), tb.Used)
}

func TestTakeFilledMoreThanAvailable(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Usage.TakeFilled(h.modCtx, h.mod.ID, usage.TakeInput{Filled: 1001})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(1000), h.stock().Available)
}

func TestDeliveryUpdatesBalance(t *testing.T) {
	h := newHarness(t)
	h.take(100)

	d := h.deliver(counts(5, 0, 1, 300))

	assertMoney(t, 400, d.Bill)
	assertMoney(t, 100, d.BottlePrice)
	assert.NotEmpty(t, d.Number)

	c := h.reloadCustomer()
	assertMoney(t, 600, c.Balance)
	assert.Equal(t, int64(5), c.Bottles)

	u := h.usage()
	assert.Equal(t, int64(5), u.Sales)
	assert.Equal(t, int64(95), u.Remaining)
}

func TestDeliveryBeyondRemainingChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.take(100)
	before := h.reloadCustomer()

	_, err := h.svc.Deliveries.Create(h.modCtx, delivery.CreateInput{CustomerID: h.customer.ID, Counts: counts(150, 0, 0, 0)})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	u := h.usage()
	assert.Equal(t, int64(100), u.Remaining)
	assert.Equal(t, int64(0), u.Sales)
	after := h.reloadCustomer()
	assert.True(t, before.Balance.Equal(after.Balance))
	assert.Equal(t, before.Bottles, after.Bottles)

	list, err := h.svc.Deliveries.List(h.admin, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestReturnMoreEmptiesThanHeld(t *testing.T) {
	h := newHarness(t)
	h.take(20)
	h.deliver(counts(5, 5, 0, 0))

	_, err := h.svc.Usage.Return(h.modCtx, h.mod.ID, usage.ReturnInput{Empty: 10})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	u := h.usage()
	assert.Equal(t, int64(5), u.Empty)
	assert.Equal(t, int64(0), u.Returned)
}

func TestReturnBringsBottlesBack(t *testing.T) {
	h := newHarness(t)
	h.take(20)
	h.deliver(counts(5, 3, 0, 0))

	u, err := h.svc.Usage.Return(h.modCtx, h.mod.ID, usage.ReturnInput{Empty: 3, Remaining: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.Empty)
	assert.Equal(t, int64(0), u.Remaining)
	assert.Equal(t, int64(18), u.Returned)

	tb := h.stock()
	assert.Equal(t, int64(998), tb.Available)
	assert.Equal(t, int64(2), tb.Used)
}

func TestDeliveryCreateThenDeleteRestoresState(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	stockBefore := h.stock().StockCounters
	usageBefore := h.usage().UsageCounters
	accountBefore := h.reloadCustomer().Account

	d := h.deliver(reconcile.Counts{Filled: 7, Empty: 2, Damaged: 1, FOC: 2, Payment: types.MustMoney("125.50")})
	require.NoError(t, h.svc.Deliveries.Delete(h.modCtx, d.ID))

	assert.Equal(t, stockBefore, h.stock().StockCounters)
	assert.Equal(t, usageBefore, h.usage().UsageCounters)
	accountAfter := h.reloadCustomer().Account
	assert.True(t, accountBefore.Balance.Equal(accountAfter.Balance))
	assert.Equal(t, accountBefore.Bottles, accountAfter.Bottles)

	_, err := h.svc.Deliveries.GetByID(h.admin, d.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeliveryUpdateAppliesDifference(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	d := h.deliver(counts(5, 0, 1, 300))

	updated, err := h.svc.Deliveries.Update(h.modCtx, d.ID, delivery.UpdateInput{Counts: counts(8, 2, 1, 500)})
	require.NoError(t, err)
	assertMoney(t, 700, updated.Bill)

	// 500 + (8-1)*100 - 500
	c := h.reloadCustomer()
	assertMoney(t, 700, c.Balance)
	assert.Equal(t, int64(6), c.Bottles)

	u := h.usage()
	assert.Equal(t, int64(8), u.Sales)
	assert.Equal(t, int64(42), u.Remaining)
	assert.Equal(t, int64(2), u.Empty)
}

func TestDeliveryUpdateKeepsSnapshotPrice(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	d := h.deliver(counts(2, 0, 0, 0))

	_, err := h.svc.Customers.Update(h.admin, h.customer.ID, customer.UpdateInput{
		Name:        h.customer.Name,
		BottlePrice: types.MoneyFromInt(150),
	})
	require.NoError(t, err)

	updated, err := h.svc.Deliveries.Update(h.modCtx, d.ID, delivery.UpdateInput{Counts: counts(3, 0, 0, 0)})
	require.NoError(t, err)
	assertMoney(t, 300, updated.Bill)
	assertMoney(t, 800, h.reloadCustomer().Balance)
}

func TestDeliveryLockedAfterItsDay(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	d := h.deliver(counts(2, 0, 0, 0))

	h.now = h.now.Add(24 * time.Hour)

	_, err := h.svc.Deliveries.Update(h.modCtx, d.ID, delivery.UpdateInput{Counts: counts(3, 0, 0, 0)})
	assert.True(t, apperror.HasCode(err, apperror.CodeRecordLocked))
	err = h.svc.Deliveries.Delete(h.admin, d.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeRecordLocked))
}

func TestDeliveryOfAnotherModeratorIsForbidden(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	d := h.deliver(counts(2, 0, 0, 0))

	other, err := h.svc.Moderators.Create(h.admin, moderator.CreateInput{Name: "Sam", Phone: "+971500000002"})
	require.NoError(t, err)
	otherCtx := appctx.WithActor(context.Background(), &appctx.Actor{ID: other.ID.String(), Role: appctx.RoleModerator})

	_, err = h.svc.Deliveries.GetByID(otherCtx, d.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))

	list, err := h.svc.Deliveries.List(otherCtx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestAdminMustNameModerator(t *testing.T) {
	h := newHarness(t)
	h.take(50)

	_, err := h.svc.Deliveries.Create(h.admin, delivery.CreateInput{CustomerID: h.customer.ID, Counts: counts(1, 0, 0, 0)})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	d, err := h.svc.Deliveries.Create(h.admin, delivery.CreateInput{CustomerID: h.customer.ID, ModeratorID: h.mod.ID, Counts: counts(1, 0, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, h.mod.ID, d.ModeratorID)
	assert.Equal(t, "admin-1", d.CreatedBy)
}

func TestDeliveryEmitsNotification(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	d := h.deliver(counts(5, 1, 1, 300))

	var found *ledger.Event
	for _, e := range h.store.Events() {
		if e.Type == delivery.EventRecorded {
			e := e
			found = &e
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, d.ID, found.AggregateID)

	n, ok := found.Payload.(delivery.Notification)
	require.True(t, ok)
	assert.Equal(t, "+971500000100", n.Phone)
	assert.Equal(t, "600.00", n.Balance)
	assert.Contains(t, n.Text(), d.Number)
}

func TestLazyUsageCreatedOnceUnderConcurrency(t *testing.T) {
	h := newHarness(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Usage.TakeFilled(h.modCtx, h.mod.ID, usage.TakeInput{Filled: 5})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := h.svc.Usage.List(h.admin, domain.ListFilter{ModeratorID: &h.mod.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(100), list.Items[0].Filled)
	assert.Equal(t, int64(900), h.stock().Available)
}

func TestUsageCarriesHeldBottlesToNextDay(t *testing.T) {
	h := newHarness(t)
	h.take(30)
	h.deliver(counts(10, 4, 0, 0))

	h.now = h.now.Add(24 * time.Hour)

	u, err := h.svc.Usage.Today(h.modCtx, h.mod.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), u.Remaining)
	assert.Equal(t, int64(4), u.Empty)
	assert.Equal(t, int64(0), u.Filled)
	assert.Equal(t, int64(0), u.Sales)
}

func TestResetGivesBottlesBack(t *testing.T) {
	h := newHarness(t)
	h.take(40)

	require.NoError(t, h.svc.Usage.Reset(h.admin, h.mod.ID, h.svc.Clock.Today()))
	assert.Equal(t, int64(1000), h.stock().Available)
	assert.Equal(t, int64(0), h.stock().Used)

	_, err := h.svc.Usage.Get(h.admin, h.mod.ID, h.svc.Clock.Today())
	assert.True(t, apperror.IsNotFound(err))
}

func TestResetRefusedAfterSales(t *testing.T) {
	h := newHarness(t)
	h.take(40)
	h.deliver(counts(1, 0, 0, 0))

	err := h.svc.Usage.Reset(h.admin, h.mod.ID, h.svc.Clock.Today())
	assert.True(t, apperror.HasCode(err, usage.CodeUsageInUse))
}

func TestResetRefusedOnceCarriedForward(t *testing.T) {
	h := newHarness(t)
	h.take(50)
	day1 := h.svc.Clock.Today()

	h.now = h.now.Add(24 * time.Hour)
	next, err := h.svc.Usage.Today(h.modCtx, h.mod.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), next.Remaining)

	err = h.svc.Usage.Reset(h.admin, h.mod.ID, day1)
	assert.True(t, apperror.HasCode(err, usage.CodeUsageInUse))

	tb := h.stock()
	assert.Equal(t, int64(950), tb.Available)
	assert.Equal(t, int64(50), tb.Used)
	_, err = h.svc.Usage.Get(h.admin, h.mod.ID, day1)
	require.NoError(t, err)
}

func TestResetRefusedWithCollectOnlyDelivery(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.Customers.Create(h.admin, customer.CreateInput{
		Name:        "Villa 12",
		Phone:       "+971500000101",
		Area:        "Marina",
		BottlePrice: types.MoneyFromInt(100),
		Bottles:     5,
	})
	require.NoError(t, err)
	h.take(10)

	d, err := h.svc.Deliveries.Create(h.modCtx, delivery.CreateInput{CustomerID: c.ID, Counts: counts(0, 5, 0, 0)})
	require.NoError(t, err)
	require.Equal(t, int64(0), h.usage().Sales)

	err = h.svc.Usage.Reset(h.admin, h.mod.ID, h.svc.Clock.Today())
	assert.True(t, apperror.HasCode(err, usage.CodeUsageInUse))
	assert.Equal(t, int64(5), h.usage().Empty)

	require.NoError(t, h.svc.Deliveries.Delete(h.modCtx, d.ID))
	c, err = h.svc.Customers.GetByID(h.admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.Bottles)
	assert.Equal(t, int64(0), h.usage().Empty)
}

func TestResetRefusedWithMiscellaneousSale(t *testing.T) {
	h := newHarness(t)
	h.take(10)

	_, err := h.svc.Miscellaneous.Create(h.modCtx, miscellaneous.CreateInput{
		Buyer:       "Walk-in",
		BottlePrice: types.MoneyFromInt(120),
		Counts:      counts(0, 2, 0, 0),
	})
	require.NoError(t, err)

	err = h.svc.Usage.Reset(h.admin, h.mod.ID, h.svc.Clock.Today())
	assert.True(t, apperror.HasCode(err, usage.CodeUsageInUse))
	assert.Equal(t, int64(990), h.stock().Available)
}

func TestRejectedDeleteLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t)
	h.take(20)
	d := h.deliver(counts(5, 3, 0, 300))

	_, err := h.svc.Usage.Return(h.modCtx, h.mod.ID, usage.ReturnInput{Empty: 3})
	require.NoError(t, err)

	stockBefore := h.stock().StockCounters
	usageBefore := h.usage().UsageCounters
	accountBefore := h.reloadCustomer().Account

	err = h.svc.Deliveries.Delete(h.modCtx, d.ID)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	assert.Equal(t, stockBefore, h.stock().StockCounters)
	assert.Equal(t, usageBefore, h.usage().UsageCounters)
	accountAfter := h.reloadCustomer().Account
	assert.True(t, accountBefore.Balance.Equal(accountAfter.Balance))
	assert.Equal(t, accountBefore.Bottles, accountAfter.Bottles)

	_, err = h.svc.Deliveries.GetByID(h.admin, d.ID)
	assert.NoError(t, err)
}

func TestMarkDone(t *testing.T) {
	h := newHarness(t)

	u, err := h.svc.Usage.MarkDone(h.modCtx, h.mod.ID, usage.DoneInput{Done: true})
	require.NoError(t, err)
	assert.True(t, u.Done)

	_, err = h.svc.Usage.MarkDone(h.modCtx, h.mod.ID, usage.DoneInput{Day: h.svc.Clock.Today().AddDays(1), Done: true})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestInactiveModeratorCannotTake(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Moderators.Update(h.admin, h.mod.ID, moderator.UpdateInput{
		Name:   h.mod.Name,
		Phone:  h.mod.Phone,
		Active: false,
	})
	require.NoError(t, err)

	_, err = h.svc.Usage.TakeFilled(h.modCtx, h.mod.ID, usage.TakeInput{Filled: 1})
	require.Error(t, err)
	assert.Equal(t, int64(1000), h.stock().Available)
}

func TestInventoryOperations(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Inventory.Setup(h.admin, inventory.SetupInput{Total: 10})
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	tb, err := h.svc.Inventory.AddBottles(h.admin, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), tb.Total)
	assert.Equal(t, int64(1200), tb.Available)

	tb, err = h.svc.Inventory.RecordDamage(h.admin, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1150), tb.Available)
	assert.Equal(t, int64(50), tb.Damaged)

	_, err = h.svc.Inventory.RecordDamage(h.admin, 5000)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(1150), h.stock().Available)
}

func TestCustomerDepositTracksInventory(t *testing.T) {
	h := newHarness(t)

	c, err := h.svc.Customers.Create(h.admin, customer.CreateInput{Name: "Villa 3", BottlePrice: types.MoneyFromInt(90), Deposit: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), h.stock().Deposit)

	_, err = h.svc.Customers.Update(h.admin, c.ID, customer.UpdateInput{Name: "Villa 3", BottlePrice: types.MoneyFromInt(90), Deposit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(6), h.stock().Deposit)

	require.NoError(t, h.svc.Customers.Delete(h.admin, c.ID))
	assert.Equal(t, int64(0), h.stock().Deposit)
}

func TestCustomerWithDeliveriesCannotBeDeleted(t *testing.T) {
	h := newHarness(t)
	h.take(10)
	h.deliver(counts(1, 0, 0, 0))

	err := h.svc.Customers.Delete(h.admin, h.customer.ID)
	require.Error(t, err)
	_, err = h.svc.Customers.GetByID(h.admin, h.customer.ID)
	assert.NoError(t, err)
}

func TestModeratorPhoneIsUnique(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Moderators.Create(h.admin, moderator.CreateInput{Name: "Copy", Phone: h.mod.Phone})
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestMiscellaneousSale(t *testing.T) {
	h := newHarness(t)
	h.take(20)

	m, err := h.svc.Miscellaneous.Create(h.modCtx, miscellaneous.CreateInput{
		Buyer:       "Walk-in",
		BottlePrice: types.MoneyFromInt(120),
		Counts:      counts(3, 1, 1, 240),
	})
	require.NoError(t, err)
	assertMoney(t, 240, m.Bill)

	u := h.usage()
	assert.Equal(t, int64(3), u.Sales)
	assert.Equal(t, int64(17), u.Remaining)
	assert.Equal(t, int64(1), u.Empty)

	require.NoError(t, h.svc.Miscellaneous.Delete(h.modCtx, m.ID))
	u = h.usage()
	assert.Equal(t, int64(0), u.Sales)
	assert.Equal(t, int64(20), u.Remaining)
}

func TestExpenses(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Expenses.Create(h.modCtx, expense.CreateInput{Amount: types.Zero(), Description: "fuel"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	e, err := h.svc.Expenses.Create(h.modCtx, expense.CreateInput{Amount: types.MoneyFromInt(45), Description: "fuel"})
	require.NoError(t, err)
	assert.Equal(t, h.mod.ID, e.ModeratorID)

	e, err = h.svc.Expenses.Update(h.modCtx, e.ID, expense.UpdateInput{Amount: types.MoneyFromInt(50), Description: "fuel and tolls"})
	require.NoError(t, err)
	assertMoney(t, 50, e.Amount)
}

func TestDailySummary(t *testing.T) {
	h := newHarness(t)
	h.take(30)
	h.deliver(counts(5, 0, 1, 300))
	_, err := h.svc.Miscellaneous.Create(h.modCtx, miscellaneous.CreateInput{BottlePrice: types.MoneyFromInt(100), Counts: counts(2, 0, 0, 200)})
	require.NoError(t, err)
	_, err = h.svc.Expenses.Create(h.modCtx, expense.CreateInput{Amount: types.MoneyFromInt(60), Description: "fuel"})
	require.NoError(t, err)

	sum, err := h.svc.Reports.DailySummary(h.admin, types.Day{}, nil)
	require.NoError(t, err)
	require.Len(t, sum.Moderators, 1)

	row := sum.Moderators[0]
	assert.Equal(t, "Ravi", row.ModeratorName)
	assert.Equal(t, int64(7), sum.TotalFilled)
	assertMoney(t, 600, sum.TotalBilled)
	assertMoney(t, 500, sum.TotalPayments)
	assertMoney(t, 60, sum.TotalExpenses)
	assertMoney(t, 440, sum.NetCash)
	assert.Equal(t, int64(23), row.Usage.Remaining)
}

func TestDailySummaryScopedToModerator(t *testing.T) {
	h := newHarness(t)
	other := id.New()

	sum, err := h.svc.Reports.DailySummary(h.modCtx, types.Day{}, &other)
	require.NoError(t, err)
	for _, row := range sum.Moderators {
		assert.Equal(t, h.mod.ID, row.ModeratorID)
	}
}

func TestAuditTrail(t *testing.T) {
	h := newHarness(t)
	h.take(10)
	d := h.deliver(counts(2, 0, 0, 0))

	entries, err := h.svc.Audit.History(h.admin, ledger.EntityDelivery, d.ID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, ledger.ActionCreate, entries[0].Action)
	assert.Equal(t, h.mod.ID.String(), entries[0].ActorID)

	_, err = h.svc.Audit.History(h.admin, "invoice", d.ID, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
