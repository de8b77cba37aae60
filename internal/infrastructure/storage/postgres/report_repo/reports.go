// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reports"
	"aquaops/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository with grouped aggregates.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func salesQuery(table string, day types.Day, moderatorID *id.ID) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"moderator_id",
			"COUNT(*) AS count",
			"COALESCE(SUM(filled_bottles), 0) AS filled_bottles",
			"COALESCE(SUM(foc), 0) AS foc",
			"COALESCE(SUM(empty_bottles), 0) AS empty_bottles",
			"COALESCE(SUM(damaged_bottles), 0) AS damaged_bottles",
			"COALESCE(SUM(bill), 0) AS billed",
			"COALESCE(SUM(payment), 0) AS payments",
		).
		From(table).
		Where(squirrel.Eq{"day": day})
	if moderatorID != nil {
		q = q.Where(squirrel.Eq{"moderator_id": *moderatorID})
	}
	return q.GroupBy("moderator_id")
}

func expenseQuery(day types.Day, moderatorID *id.ID) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"moderator_id",
			"COUNT(*) AS count",
			"COALESCE(SUM(amount), 0) AS amount",
		).
		From("other_expenses").
		Where(squirrel.Eq{"day": day})
	if moderatorID != nil {
		q = q.Where(squirrel.Eq{"moderator_id": *moderatorID})
	}
	return q.GroupBy("moderator_id")
}

func (r *ReportRepo) selectInto(ctx context.Context, dst any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), dst, sql, args...)
}

func (r *ReportRepo) DeliveryTotals(ctx context.Context, day types.Day, moderatorID *id.ID) ([]reports.SalesTotals, error) {
	var rows []reports.SalesTotals
	if err := r.selectInto(ctx, &rows, salesQuery("deliveries", day, moderatorID)); err != nil {
		return nil, fmt.Errorf("delivery totals: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) MiscellaneousTotals(ctx context.Context, day types.Day, moderatorID *id.ID) ([]reports.SalesTotals, error) {
	var rows []reports.SalesTotals
	if err := r.selectInto(ctx, &rows, salesQuery("miscellaneous", day, moderatorID)); err != nil {
		return nil, fmt.Errorf("miscellaneous totals: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) ExpenseTotals(ctx context.Context, day types.Day, moderatorID *id.ID) ([]reports.ExpenseTotals, error) {
	var rows []reports.ExpenseTotals
	if err := r.selectInto(ctx, &rows, expenseQuery(day, moderatorID)); err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}
	return rows, nil
}
