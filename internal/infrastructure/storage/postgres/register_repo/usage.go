package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/infrastructure/storage/postgres"
)

const bottleUsageTable = "bottle_usage"

// UsageRepo implements usage.Repository.
type UsageRepo struct {
	table *postgres.Table[usage.BottleUsage, *usage.BottleUsage]
}

var _ usage.Repository = (*UsageRepo)(nil)

// NewUsageRepo creates a new bottle usage repository.
func NewUsageRepo(txManager *postgres.TxManager) *UsageRepo {
	return &UsageRepo{
		table: postgres.NewTable[usage.BottleUsage](txManager, bottleUsageTable, ledger.EntityBottleUsage),
	}
}

func dayKey(moderatorID id.ID, day types.Day) squirrel.Eq {
	return squirrel.Eq{"moderator_id": moderatorID, "day": day}
}

// InsertIfAbsent relies on the (moderator_id, day) unique constraint so
// concurrent first actions insert exactly one row.
func (r *UsageRepo) InsertIfAbsent(ctx context.Context, u *usage.BottleUsage) (bool, error) {
	sql, args, err := r.table.InsertQuery(u).
		Suffix("ON CONFLICT (moderator_id, day) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}
	tag, err := r.table.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("insert bottle usage: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UsageRepo) Get(ctx context.Context, moderatorID id.ID, day types.Day) (*usage.BottleUsage, error) {
	return r.table.Get(ctx, dayKey(moderatorID, day), moderatorID.String()+"/"+day.String(), false)
}

func (r *UsageRepo) GetForUpdate(ctx context.Context, moderatorID id.ID, day types.Day) (*usage.BottleUsage, error) {
	return r.table.Get(ctx, dayKey(moderatorID, day), moderatorID.String()+"/"+day.String(), true)
}

func (r *UsageRepo) latestBeforeQuery(moderatorID id.ID, day types.Day) squirrel.SelectBuilder {
	return r.table.Select().
		Where(squirrel.Eq{"moderator_id": moderatorID}).
		Where(squirrel.Lt{"day": day}).
		OrderBy("day DESC").
		Limit(1)
}

func (r *UsageRepo) LatestBefore(ctx context.Context, moderatorID id.ID, day types.Day) (*usage.BottleUsage, error) {
	sql, args, err := r.latestBeforeQuery(moderatorID, day).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var u usage.BottleUsage
	if err := pgxscan.Get(ctx, r.table.Querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest bottle usage: %w", err)
	}
	return &u, nil
}

func (r *UsageRepo) Update(ctx context.Context, u *usage.BottleUsage) error {
	return r.table.Update(ctx, u)
}

func (r *UsageRepo) Delete(ctx context.Context, usageID id.ID) error {
	return r.table.Delete(ctx, usageID)
}

func (r *UsageRepo) listQuery(f domain.ListFilter) squirrel.SelectBuilder {
	q := r.table.Select()
	if f.ModeratorID != nil {
		q = q.Where(squirrel.Eq{"moderator_id": *f.ModeratorID})
	}
	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"day": f.From})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{"day": f.To})
	}
	return q.OrderBy("day DESC", "moderator_id")
}

func (r *UsageRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*usage.BottleUsage], error) {
	items, total, err := r.table.List(ctx, r.listQuery(f), f.Limit, f.Offset)
	if err != nil {
		return domain.ListResult[*usage.BottleUsage]{}, err
	}
	return domain.ListResult[*usage.BottleUsage]{
		Items:      items,
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func laterDays(moderatorID id.ID, day types.Day) squirrel.And {
	return squirrel.And{squirrel.Eq{"moderator_id": moderatorID}, squirrel.Gt{"day": day}}
}

func (r *UsageRepo) ExistsAfter(ctx context.Context, moderatorID id.ID, day types.Day) (bool, error) {
	return r.table.Exists(ctx, laterDays(moderatorID, day))
}

func (r *UsageRepo) ExistsForModerator(ctx context.Context, moderatorID id.ID) (bool, error) {
	return r.table.Exists(ctx, squirrel.Eq{"moderator_id": moderatorID})
}
