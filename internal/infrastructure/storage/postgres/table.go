package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
)

// Record is a versioned row.
type Record interface {
	GetID() id.ID
	GetVersion() int
	Touch()
}

// Table provides the CRUD statements shared by every ledger table.
// Columns come from the "db" tags of T.
type Table[T any, PT interface {
	*T
	Record
}] struct {
	txManager *TxManager
	name      string
	entity    string
	cols      []string
}

// NewTable creates a table accessor. entity is the name used in errors.
func NewTable[T any, PT interface {
	*T
	Record
}](txManager *TxManager, name, entity string) *Table[T, PT] {
	return &Table[T, PT]{
		txManager: txManager,
		name:      name,
		entity:    entity,
		cols:      ExtractDBColumns[T](),
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Name returns the table name.
func (t *Table[T, PT]) Name() string { return t.name }

// Columns returns the selected columns.
func (t *Table[T, PT]) Columns() []string { return t.cols }

// Querier returns the querier for ctx.
func (t *Table[T, PT]) Querier(ctx context.Context) Querier {
	return t.txManager.GetQuerier(ctx)
}

// Select starts a SELECT of every column.
func (t *Table[T, PT]) Select() squirrel.SelectBuilder {
	return Builder().Select(t.cols...).From(t.name)
}

// InsertQuery builds the INSERT for v.
func (t *Table[T, PT]) InsertQuery(v PT) squirrel.InsertBuilder {
	data := StructToMap(v)
	values := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}
	return Builder().Insert(t.name).SetMap(values)
}

// Insert writes v.
func (t *Table[T, PT]) Insert(ctx context.Context, v PT) error {
	sql, args, err := t.InsertQuery(v).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := t.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return mapError(err, "insert "+t.name, t.entity)
	}
	return nil
}

// UpdateQuery builds the version-checked UPDATE for v.
func (t *Table[T, PT]) UpdateQuery(v PT, now time.Time) squirrel.UpdateBuilder {
	data := StructToMap(v)
	q := Builder().Update(t.name)
	for _, col := range t.cols {
		switch col {
		case "id", "version", "created_at", "updated_at":
			continue
		}
		if val, ok := data[col]; ok {
			q = q.Set(col, val)
		}
	}
	return q.
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": v.GetID(), "version": v.GetVersion()})
}

// Update writes v if the stored version still equals v's version and then
// bumps v's version to match the row.
func (t *Table[T, PT]) Update(ctx context.Context, v PT) error {
	sql, args, err := t.UpdateQuery(v, time.Now().UTC()).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := t.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "update "+t.name, t.entity)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(t.entity, v.GetID())
	}
	v.Touch()
	return nil
}

// Get loads the single row matching where. With forUpdate the row is locked
// until the running transaction ends.
func (t *Table[T, PT]) Get(ctx context.Context, where squirrel.Sqlizer, key any, forUpdate bool) (PT, error) {
	q := t.Select().Where(where).Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v T
	if err := pgxscan.Get(ctx, t.Querier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(t.entity, key)
		}
		return nil, fmt.Errorf("get %s: %w", t.name, err)
	}
	return &v, nil
}

// GetByID loads a row by primary key.
func (t *Table[T, PT]) GetByID(ctx context.Context, rowID id.ID, forUpdate bool) (PT, error) {
	return t.Get(ctx, squirrel.Eq{"id": rowID}, rowID, forUpdate)
}

// Delete removes a row by primary key.
func (t *Table[T, PT]) Delete(ctx context.Context, rowID id.ID) error {
	sql, args, err := Builder().Delete(t.name).Where(squirrel.Eq{"id": rowID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	tag, err := t.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "delete "+t.name, t.entity)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(t.entity, rowID)
	}
	return nil
}

// List runs q with pagination and returns the page plus the total count.
func (t *Table[T, PT]) List(ctx context.Context, q squirrel.SelectBuilder, limit, offset int) ([]PT, int64, error) {
	querier := t.Querier(ctx)

	countSQL, countArgs, err := Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.name, err)
	}

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var rows []*T
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.name, err)
	}
	items := make([]PT, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	return items, total, nil
}

// Exists reports whether any row matches where.
func (t *Table[T, PT]) Exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := Builder().Select("1").From(t.name).Where(where).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}
	var one int
	err = t.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", t.name, err)
	}
	return true, nil
}
