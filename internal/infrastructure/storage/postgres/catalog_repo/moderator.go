// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/infrastructure/storage/postgres"
)

const moderatorsTable = "moderators"

// ModeratorRepo implements moderator.Repository.
type ModeratorRepo struct {
	table *postgres.Table[moderator.Moderator, *moderator.Moderator]
}

var _ moderator.Repository = (*ModeratorRepo)(nil)

// NewModeratorRepo creates a new moderator repository.
func NewModeratorRepo(txManager *postgres.TxManager) *ModeratorRepo {
	return &ModeratorRepo{
		table: postgres.NewTable[moderator.Moderator](txManager, moderatorsTable, ledger.EntityModerator),
	}
}

func (r *ModeratorRepo) Create(ctx context.Context, m *moderator.Moderator) error {
	return r.table.Insert(ctx, m)
}

func (r *ModeratorRepo) GetByID(ctx context.Context, moderatorID id.ID) (*moderator.Moderator, error) {
	return r.table.GetByID(ctx, moderatorID, false)
}

func (r *ModeratorRepo) Update(ctx context.Context, m *moderator.Moderator) error {
	return r.table.Update(ctx, m)
}

func (r *ModeratorRepo) Delete(ctx context.Context, moderatorID id.ID) error {
	return r.table.Delete(ctx, moderatorID)
}

func (r *ModeratorRepo) listQuery(f domain.ListFilter) squirrel.SelectBuilder {
	q := r.table.Select()
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}
	if f.Area != "" {
		q = q.Where(squirrel.Expr("? = ANY(areas)", f.Area))
	}
	return q.OrderBy("name", "id")
}

func (r *ModeratorRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*moderator.Moderator], error) {
	items, total, err := r.table.List(ctx, r.listQuery(f), f.Limit, f.Offset)
	if err != nil {
		return domain.ListResult[*moderator.Moderator]{}, err
	}
	return domain.ListResult[*moderator.Moderator]{
		Items:      items,
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func (r *ModeratorRepo) ExistsByPhone(ctx context.Context, phone string, exclude id.ID) (bool, error) {
	where := squirrel.And{squirrel.Eq{"phone": phone}}
	if !id.IsNil(exclude) {
		where = append(where, squirrel.NotEq{"id": exclude})
	}
	return r.table.Exists(ctx, where)
}
