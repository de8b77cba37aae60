package document_repo

import (
	"github.com/Masterminds/squirrel"

	"aquaops/internal/domain"
	"aquaops/internal/domain/documents/expense"
	"aquaops/internal/domain/ledger"
	"aquaops/internal/infrastructure/storage/postgres"
)

const otherExpensesTable = "other_expenses"

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	*BaseDocumentRepo[expense.OtherExpense, *expense.OtherExpense]
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txManager *postgres.TxManager) *ExpenseRepo {
	base := NewBaseDocumentRepo[expense.OtherExpense](txManager, otherExpensesTable, ledger.EntityExpense)
	base.filter = func(q squirrel.SelectBuilder, f domain.ListFilter) squirrel.SelectBuilder {
		if f.Search != "" {
			q = q.Where(squirrel.ILike{"description": "%" + f.Search + "%"})
		}
		return q
	}
	return &ExpenseRepo{BaseDocumentRepo: base}
}
