package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchExecutor sends several statements in a single round-trip.
type BatchExecutor struct {
	txManager *TxManager
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(txManager *TxManager) *BatchExecutor {
	return &BatchExecutor{txManager: txManager}
}

// BatchQuery represents a query in a batch.
type BatchQuery struct {
	Name string
	SQL  string
	Args []any
}

// ExecuteBatch runs queries inside the transaction in ctx and returns the
// affected row count per query name.
func (e *BatchExecutor) ExecuteBatch(ctx context.Context, queries []BatchQuery) (map[string]int64, error) {
	tx := e.txManager.GetTx(ctx)
	if tx == nil {
		return nil, fmt.Errorf("ExecuteBatch requires transaction context")
	}

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	affected := make(map[string]int64, len(queries))
	for _, q := range queries {
		tag, err := results.Exec()
		if err != nil {
			return nil, fmt.Errorf("batch query %s: %w", q.Name, err)
		}
		affected[q.Name] += tag.RowsAffected()
	}
	return affected, nil
}
