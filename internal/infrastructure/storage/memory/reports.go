package memory

import (
	"context"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reconcile"
	"aquaops/internal/domain/reports"
)

// ReportRepo implements reports.Repository by scanning the store.
type ReportRepo struct {
	store *Store
}

var _ reports.Repository = (*ReportRepo)(nil)

// Reports returns the report repository.
func (s *Store) Reports() *ReportRepo {
	return &ReportRepo{store: s}
}

type salesAcc map[id.ID]*reports.SalesTotals

func (acc salesAcc) add(moderatorID id.ID, c reconcile.Counts, bill types.Money) {
	t, ok := acc[moderatorID]
	if !ok {
		t = &reports.SalesTotals{ModeratorID: moderatorID, Billed: types.Zero(), Payments: types.Zero()}
		acc[moderatorID] = t
	}
	t.Count++
	t.Filled += c.Filled
	t.FOC += c.FOC
	t.Empty += c.Empty
	t.Damaged += c.Damaged
	t.Billed = t.Billed.Add(bill)
	t.Payments = t.Payments.Add(c.Payment)
}

func (acc salesAcc) rows() []reports.SalesTotals {
	out := make([]reports.SalesTotals, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	return out
}

func matches(moderatorID id.ID, day, want types.Day, filter *id.ID) bool {
	return day.Equal(want) && (filter == nil || *filter == moderatorID)
}

func (r *ReportRepo) DeliveryTotals(_ context.Context, day types.Day, moderatorID *id.ID) ([]reports.SalesTotals, error) {
	acc := salesAcc{}
	r.store.read(func(st *state) {
		for _, d := range st.deliveries {
			if matches(d.ModeratorID, d.Day, day, moderatorID) {
				acc.add(d.ModeratorID, d.Counts, d.Bill)
			}
		}
	})
	return acc.rows(), nil
}

func (r *ReportRepo) MiscellaneousTotals(_ context.Context, day types.Day, moderatorID *id.ID) ([]reports.SalesTotals, error) {
	acc := salesAcc{}
	r.store.read(func(st *state) {
		for _, m := range st.misc {
			if matches(m.ModeratorID, m.Day, day, moderatorID) {
				acc.add(m.ModeratorID, m.Counts, m.Bill)
			}
		}
	})
	return acc.rows(), nil
}

func (r *ReportRepo) ExpenseTotals(_ context.Context, day types.Day, moderatorID *id.ID) ([]reports.ExpenseTotals, error) {
	acc := map[id.ID]*reports.ExpenseTotals{}
	r.store.read(func(st *state) {
		for _, e := range st.expenses {
			if !matches(e.ModeratorID, e.Day, day, moderatorID) {
				continue
			}
			t, ok := acc[e.ModeratorID]
			if !ok {
				t = &reports.ExpenseTotals{ModeratorID: e.ModeratorID, Amount: types.Zero()}
				acc[e.ModeratorID] = t
			}
			t.Count++
			t.Amount = t.Amount.Add(e.Amount)
		}
	})
	out := make([]reports.ExpenseTotals, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	return out, nil
}
