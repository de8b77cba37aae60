package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/infrastructure/storage/postgres"
)

const customersTable = "customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	table *postgres.Table[customer.Customer, *customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		table: postgres.NewTable[customer.Customer](txManager, customersTable, ledger.EntityCustomer),
	}
}

func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.table.Insert(ctx, c)
}

func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.table.GetByID(ctx, customerID, false)
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.table.GetByID(ctx, customerID, true)
}

func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	return r.table.Update(ctx, c)
}

func (r *CustomerRepo) Delete(ctx context.Context, customerID id.ID) error {
	return r.table.Delete(ctx, customerID)
}

func (r *CustomerRepo) listQuery(f domain.ListFilter) squirrel.SelectBuilder {
	q := r.table.Select()
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
			squirrel.ILike{"address": pattern},
		})
	}
	if f.Area != "" {
		q = q.Where(squirrel.Eq{"area": f.Area})
	}
	if f.ModeratorID != nil {
		q = q.Where(squirrel.Eq{"moderator_id": *f.ModeratorID})
	}
	return q.OrderBy("name", "id")
}

func (r *CustomerRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	items, total, err := r.table.List(ctx, r.listQuery(f), f.Limit, f.Offset)
	if err != nil {
		return domain.ListResult[*customer.Customer]{}, err
	}
	return domain.ListResult[*customer.Customer]{
		Items:      items,
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}
