// Package document_repo provides PostgreSQL implementations for the
// day-bound transaction records.
package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides CRUD shared by deliveries, miscellaneous sales
// and expenses.
type BaseDocumentRepo[T any, PT interface {
	*T
	postgres.Record
}] struct {
	table *postgres.Table[T, PT]
	// filter adds record-specific conditions to List
	filter func(q squirrel.SelectBuilder, f domain.ListFilter) squirrel.SelectBuilder
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any, PT interface {
	*T
	postgres.Record
}](txManager *postgres.TxManager, tableName, entityName string) *BaseDocumentRepo[T, PT] {
	return &BaseDocumentRepo[T, PT]{
		table: postgres.NewTable[T, PT](txManager, tableName, entityName),
	}
}

func (r *BaseDocumentRepo[T, PT]) Create(ctx context.Context, doc PT) error {
	return r.table.Insert(ctx, doc)
}

func (r *BaseDocumentRepo[T, PT]) GetByID(ctx context.Context, docID id.ID) (PT, error) {
	return r.table.GetByID(ctx, docID, false)
}

func (r *BaseDocumentRepo[T, PT]) GetForUpdate(ctx context.Context, docID id.ID) (PT, error) {
	return r.table.GetByID(ctx, docID, true)
}

func (r *BaseDocumentRepo[T, PT]) Update(ctx context.Context, doc PT) error {
	return r.table.Update(ctx, doc)
}

func (r *BaseDocumentRepo[T, PT]) Delete(ctx context.Context, docID id.ID) error {
	return r.table.Delete(ctx, docID)
}

func moderatorDay(moderatorID id.ID, day types.Day) squirrel.Eq {
	return squirrel.Eq{"moderator_id": moderatorID, "day": day}
}

// ExistsForModeratorDay reports whether the moderator has a record on day.
func (r *BaseDocumentRepo[T, PT]) ExistsForModeratorDay(ctx context.Context, moderatorID id.ID, day types.Day) (bool, error) {
	return r.table.Exists(ctx, moderatorDay(moderatorID, day))
}

func (r *BaseDocumentRepo[T, PT]) listQuery(f domain.ListFilter) squirrel.SelectBuilder {
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
	if r.filter != nil {
		q = r.filter(q, f)
	}
	return q.OrderBy("day DESC", "created_at DESC", "id DESC")
}

func (r *BaseDocumentRepo[T, PT]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[PT], error) {
	items, total, err := r.table.List(ctx, r.listQuery(f), f.Limit, f.Offset)
	if err != nil {
		return domain.ListResult[PT]{}, err
	}
	return domain.ListResult[PT]{
		Items:      items,
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}
