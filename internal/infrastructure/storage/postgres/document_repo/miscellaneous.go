package document_repo

import (
	"github.com/Masterminds/squirrel"

	"aquaops/internal/domain"
	"aquaops/internal/domain/documents/miscellaneous"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/infrastructure/storage/postgres"
)

const miscellaneousTable = "miscellaneous"

// MiscellaneousRepo implements miscellaneous.Repository.
type MiscellaneousRepo struct {
	*BaseDocumentRepo[miscellaneous.Miscellaneous, *miscellaneous.Miscellaneous]
}

var _ miscellaneous.Repository = (*MiscellaneousRepo)(nil)

// NewMiscellaneousRepo creates a new miscellaneous repository.
func NewMiscellaneousRepo(txManager *postgres.TxManager) *MiscellaneousRepo {
	base := NewBaseDocumentRepo[miscellaneous.Miscellaneous](txManager, miscellaneousTable, ledger.EntityMiscellaneous)
	base.filter = func(q squirrel.SelectBuilder, f domain.ListFilter) squirrel.SelectBuilder {
		if f.Search != "" {
			pattern := "%" + f.Search + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"buyer": pattern},
				squirrel.ILike{"number": pattern},
			})
		}
		return q
	}
	return &MiscellaneousRepo{BaseDocumentRepo: base}
}
