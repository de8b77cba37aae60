package memory

import (
	"context"
	"sort"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/documents/expense"
	"aquaops/internal/domain/documents/miscellaneous"
	"aquaops/internal/domain/ledger"
)

type record interface {
	GetID() id.ID
	GetVersion() int
	Touch()
}

func createIn[T any, PT interface {
	*T
	record
}](m map[id.ID]T, entityName string, v PT) error {
	if _, ok := m[v.GetID()]; ok {
		return apperror.NewDuplicate(entityName, "id", v.GetID().String())
	}
	m[v.GetID()] = *v
	return nil
}

func updateIn[T any, PT interface {
	*T
	record
}](m map[id.ID]T, entityName string, v PT) error {
	cur, ok := m[v.GetID()]
	if !ok {
		return apperror.NewNotFound(entityName, v.GetID())
	}
	if PT(&cur).GetVersion() != v.GetVersion() {
		return apperror.NewConcurrentModification(entityName, v.GetID())
	}
	v.Touch()
	m[v.GetID()] = *v
	return nil
}

func deleteIn[T any](m map[id.ID]T, entityName string, key id.ID) error {
	if _, ok := m[key]; !ok {
		return apperror.NewNotFound(entityName, key)
	}
	delete(m, key)
	return nil
}

func getFrom[T any](s *Store, pick func(st *state) map[id.ID]T, entityName string, key id.ID) (*T, error) {
	var (
		v  T
		ok bool
	)
	s.read(func(st *state) { v, ok = pick(st)[key] })
	if !ok {
		return nil, apperror.NewNotFound(entityName, key)
	}
	return &v, nil
}

func listDocs[T any](
	s *Store,
	pick func(st *state) map[id.ID]T,
	doc func(*T) *entity.Document,
	f domain.ListFilter,
	keep func(*T) bool,
) domain.ListResult[*T] {
	var items []*T
	s.read(func(st *state) {
		for _, v := range pick(st) {
			v := v
			d := doc(&v)
			if f.ModeratorID != nil && d.ModeratorID != *f.ModeratorID {
				continue
			}
			if !inRange(d.Day, f) {
				continue
			}
			if keep != nil && !keep(&v) {
				continue
			}
			items = append(items, &v)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		a, b := doc(items[i]), doc(items[j])
		if !a.Day.Equal(b.Day) {
			return a.Day.After(b.Day)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return domain.ListResult[*T]{
		Items:      paginate(items, f.Limit, f.Offset),
		TotalCount: int64(len(items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}

func existsOnDay[T any](
	s *Store,
	pick func(st *state) map[id.ID]T,
	doc func(*T) *entity.Document,
	moderatorID id.ID,
	day types.Day,
) bool {
	var exists bool
	s.read(func(st *state) {
		for _, v := range pick(st) {
			d := doc(&v)
			if d.ModeratorID == moderatorID && d.Day.Equal(day) {
				exists = true
				return
			}
		}
	})
	return exists
}

// DeliveryRepo implements delivery.Repository.
type DeliveryRepo struct {
	store *Store
}

var _ delivery.Repository = (*DeliveryRepo)(nil)

// Deliveries returns the delivery repository.
func (s *Store) Deliveries() *DeliveryRepo {
	return &DeliveryRepo{store: s}
}

func pickDeliveries(st *state) map[id.ID]delivery.Delivery { return st.deliveries }

func (r *DeliveryRepo) Create(_ context.Context, d *delivery.Delivery) error {
	return r.store.write(func(st *state) error {
		return createIn(st.deliveries, ledger.EntityDelivery, d)
	})
}

func (r *DeliveryRepo) GetByID(_ context.Context, deliveryID id.ID) (*delivery.Delivery, error) {
	return getFrom(r.store, pickDeliveries, ledger.EntityDelivery, deliveryID)
}

func (r *DeliveryRepo) GetForUpdate(ctx context.Context, deliveryID id.ID) (*delivery.Delivery, error) {
	return r.GetByID(ctx, deliveryID)
}

func (r *DeliveryRepo) Update(_ context.Context, d *delivery.Delivery) error {
	return r.store.write(func(st *state) error {
		return updateIn(st.deliveries, ledger.EntityDelivery, d)
	})
}

func (r *DeliveryRepo) Delete(_ context.Context, deliveryID id.ID) error {
	return r.store.write(func(st *state) error {
		return deleteIn(st.deliveries, ledger.EntityDelivery, deliveryID)
	})
}

func (r *DeliveryRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*delivery.Delivery], error) {
	keep := func(d *delivery.Delivery) bool {
		return f.CustomerID == nil || d.CustomerID == *f.CustomerID
	}
	doc := func(d *delivery.Delivery) *entity.Document { return &d.Document }
	return listDocs(r.store, pickDeliveries, doc, f, keep), nil
}

func (r *DeliveryRepo) ExistsForModeratorDay(_ context.Context, moderatorID id.ID, day types.Day) (bool, error) {
	doc := func(d *delivery.Delivery) *entity.Document { return &d.Document }
	return existsOnDay(r.store, pickDeliveries, doc, moderatorID, day), nil
}

func (r *DeliveryRepo) ExistsForCustomer(_ context.Context, customerID id.ID) (bool, error) {
	var exists bool
	r.store.read(func(st *state) {
		for _, d := range st.deliveries {
			if d.CustomerID == customerID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

// MiscellaneousRepo implements miscellaneous.Repository.
type MiscellaneousRepo struct {
	store *Store
}

var _ miscellaneous.Repository = (*MiscellaneousRepo)(nil)

// Miscellaneous returns the miscellaneous repository.
func (s *Store) Miscellaneous() *MiscellaneousRepo {
	return &MiscellaneousRepo{store: s}
}

func pickMisc(st *state) map[id.ID]miscellaneous.Miscellaneous { return st.misc }

func (r *MiscellaneousRepo) Create(_ context.Context, m *miscellaneous.Miscellaneous) error {
	return r.store.write(func(st *state) error {
		return createIn(st.misc, ledger.EntityMiscellaneous, m)
	})
}

func (r *MiscellaneousRepo) GetByID(_ context.Context, miscID id.ID) (*miscellaneous.Miscellaneous, error) {
	return getFrom(r.store, pickMisc, ledger.EntityMiscellaneous, miscID)
}

func (r *MiscellaneousRepo) GetForUpdate(ctx context.Context, miscID id.ID) (*miscellaneous.Miscellaneous, error) {
	return r.GetByID(ctx, miscID)
}

func (r *MiscellaneousRepo) Update(_ context.Context, m *miscellaneous.Miscellaneous) error {
	return r.store.write(func(st *state) error {
		return updateIn(st.misc, ledger.EntityMiscellaneous, m)
	})
}

func (r *MiscellaneousRepo) Delete(_ context.Context, miscID id.ID) error {
	return r.store.write(func(st *state) error {
		return deleteIn(st.misc, ledger.EntityMiscellaneous, miscID)
	})
}

func (r *MiscellaneousRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*miscellaneous.Miscellaneous], error) {
	doc := func(m *miscellaneous.Miscellaneous) *entity.Document { return &m.Document }
	return listDocs(r.store, pickMisc, doc, f, nil), nil
}

func (r *MiscellaneousRepo) ExistsForModeratorDay(_ context.Context, moderatorID id.ID, day types.Day) (bool, error) {
	doc := func(m *miscellaneous.Miscellaneous) *entity.Document { return &m.Document }
	return existsOnDay(r.store, pickMisc, doc, moderatorID, day), nil
}

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	store *Store
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// Expenses returns the expense repository.
func (s *Store) Expenses() *ExpenseRepo {
	return &ExpenseRepo{store: s}
}

func pickExpenses(st *state) map[id.ID]expense.OtherExpense { return st.expenses }

func (r *ExpenseRepo) Create(_ context.Context, e *expense.OtherExpense) error {
	return r.store.write(func(st *state) error {
		return createIn(st.expenses, ledger.EntityExpense, e)
	})
}

func (r *ExpenseRepo) GetByID(_ context.Context, expenseID id.ID) (*expense.OtherExpense, error) {
	return getFrom(r.store, pickExpenses, ledger.EntityExpense, expenseID)
}

func (r *ExpenseRepo) Update(_ context.Context, e *expense.OtherExpense) error {
	return r.store.write(func(st *state) error {
		return updateIn(st.expenses, ledger.EntityExpense, e)
	})
}

func (r *ExpenseRepo) Delete(_ context.Context, expenseID id.ID) error {
	return r.store.write(func(st *state) error {
		return deleteIn(st.expenses, ledger.EntityExpense, expenseID)
	})
}

func (r *ExpenseRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*expense.OtherExpense], error) {
	doc := func(e *expense.OtherExpense) *entity.Document { return &e.Document }
	return listDocs(r.store, pickExpenses, doc, f, nil), nil
}
