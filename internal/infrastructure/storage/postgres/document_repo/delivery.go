package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/infrastructure/storage/postgres"
)

const deliveriesTable = "deliveries"

// DeliveryRepo implements delivery.Repository.
type DeliveryRepo struct {
	*BaseDocumentRepo[delivery.Delivery, *delivery.Delivery]
}

var _ delivery.Repository = (*DeliveryRepo)(nil)

// NewDeliveryRepo creates a new delivery repository.
func NewDeliveryRepo(txManager *postgres.TxManager) *DeliveryRepo {
	base := NewBaseDocumentRepo[delivery.Delivery](txManager, deliveriesTable, ledger.EntityDelivery)
	base.filter = func(q squirrel.SelectBuilder, f domain.ListFilter) squirrel.SelectBuilder {
		if f.CustomerID != nil {
			q = q.Where(squirrel.Eq{"customer_id": *f.CustomerID})
		}
		if f.Search != "" {
			q = q.Where(squirrel.ILike{"number": "%" + f.Search + "%"})
		}
		return q
	}
	return &DeliveryRepo{BaseDocumentRepo: base}
}

func (r *DeliveryRepo) ExistsForCustomer(ctx context.Context, customerID id.ID) (bool, error) {
	return r.table.Exists(ctx, squirrel.Eq{"customer_id": customerID})
}
