package reports

import (
	"context"
	"fmt"
	"sort"

	"aquaops/internal/core/id"
	"aquaops/internal/core/tx"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/documents"
	"aquaops/internal/domain/registers/usage"
)

// Service provides report generation operations.
type Service struct {
	repo       Repository
	usage      usage.Repository
	moderators moderator.Repository
	txm        tx.ReadOnlyManager
	clock      *types.Clock
}

// NewService creates a new reports service. Reads run in one read-only
// transaction of txm.
func NewService(repo Repository, usageRepo usage.Repository, moderators moderator.Repository, txm tx.ReadOnlyManager, clock *types.Clock) *Service {
	return &Service{repo: repo, usage: usageRepo, moderators: moderators, txm: txm, clock: clock}
}

// DailySummary reports every moderator's deliveries, sales, expenses and
// bottle usage for day. Moderators only see their own summary.
func (s *Service) DailySummary(ctx context.Context, day types.Day, moderatorID *id.ID) (*DailySummary, error) {
	if day.IsZero() {
		day = s.clock.Today()
	}
	moderatorID, err := documents.ScopeToActor(ctx, moderatorID)
	if err != nil {
		return nil, err
	}

	return tx.Read(ctx, s.txm, func(ctx context.Context) (*DailySummary, error) {
		return s.summarize(ctx, day, moderatorID)
	})
}

func (s *Service) summarize(ctx context.Context, day types.Day, moderatorID *id.ID) (*DailySummary, error) {
	deliveries, err := s.repo.DeliveryTotals(ctx, day, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("get delivery totals: %w", err)
	}
	misc, err := s.repo.MiscellaneousTotals(ctx, day, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("get miscellaneous totals: %w", err)
	}
	expenses, err := s.repo.ExpenseTotals(ctx, day, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("get expense totals: %w", err)
	}

	filter := domain.ListFilter{ModeratorID: moderatorID, From: day, To: day, Limit: 500}
	usages, err := s.usage.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}

	rows := make(map[id.ID]*ModeratorSummary)
	row := func(mid id.ID) *ModeratorSummary {
		r, ok := rows[mid]
		if !ok {
			r = &ModeratorSummary{
				ModeratorID:   mid,
				Deliveries:    SalesTotals{ModeratorID: mid, Billed: types.Zero(), Payments: types.Zero()},
				Miscellaneous: SalesTotals{ModeratorID: mid, Billed: types.Zero(), Payments: types.Zero()},
				Expenses:      ExpenseTotals{ModeratorID: mid, Amount: types.Zero()},
			}
			rows[mid] = r
		}
		return r
	}
	for _, t := range deliveries {
		row(t.ModeratorID).Deliveries = t
	}
	for _, t := range misc {
		row(t.ModeratorID).Miscellaneous = t
	}
	for _, t := range expenses {
		row(t.ModeratorID).Expenses = t
	}
	for _, u := range usages.Items {
		row(u.ModeratorID).Usage = u
	}

	out := &DailySummary{
		Day:           day,
		Moderators:    make([]ModeratorSummary, 0, len(rows)),
		TotalBilled:   types.Zero(),
		TotalPayments: types.Zero(),
		TotalExpenses: types.Zero(),
		NetCash:       types.Zero(),
	}
	for mid, r := range rows {
		if m, err := s.moderators.GetByID(ctx, mid); err == nil {
			r.ModeratorName = m.Name
		}
		r.NetCash = r.Deliveries.Payments.Add(r.Miscellaneous.Payments).Sub(r.Expenses.Amount)

		out.TotalFilled += r.Deliveries.Filled + r.Miscellaneous.Filled
		out.TotalBilled = out.TotalBilled.Add(r.Deliveries.Billed).Add(r.Miscellaneous.Billed)
		out.TotalPayments = out.TotalPayments.Add(r.Deliveries.Payments).Add(r.Miscellaneous.Payments)
		out.TotalExpenses = out.TotalExpenses.Add(r.Expenses.Amount)
		out.NetCash = out.NetCash.Add(r.NetCash)
		out.Moderators = append(out.Moderators, *r)
	}
	sort.Slice(out.Moderators, func(i, j int) bool {
		a, b := out.Moderators[i], out.Moderators[j]
		if a.ModeratorName != b.ModeratorName {
			return a.ModeratorName < b.ModeratorName
		}
		return a.ModeratorID.String() < b.ModeratorID.String()
	})

	return out, nil
}
