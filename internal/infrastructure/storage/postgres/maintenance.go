package postgres

import (
	"context"
	"time"

	"aquaops/pkg/logger"
)

// Maintenance prunes bookkeeping tables that grow without bound.
type Maintenance struct {
	txManager *TxManager
	batch     *BatchExecutor
	// OutboxRetention is how long published outbox rows are kept.
	OutboxRetention time.Duration
}

// NewMaintenance creates the cleanup job.
func NewMaintenance(txManager *TxManager) *Maintenance {
	return &Maintenance{
		txManager:       txManager,
		batch:           NewBatchExecutor(txManager),
		OutboxRetention: 7 * 24 * time.Hour,
	}
}

// Cleanup removes expired idempotency keys and old published outbox rows in
// one transaction.
func (m *Maintenance) Cleanup(ctx context.Context) (map[string]int64, error) {
	now := time.Now().UTC()
	var affected map[string]int64

	err := m.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		affected, err = m.batch.ExecuteBatch(ctx, []BatchQuery{
			{
				Name: "idempotency",
				SQL:  `DELETE FROM sys_idempotency WHERE expires_at < $1`,
				Args: []any{now},
			},
			{
				Name: "outbox",
				SQL:  `DELETE FROM sys_outbox WHERE status = $1 AND published_at < $2`,
				Args: []any{OutboxStatusPublished, now.Add(-m.OutboxRetention)},
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "maintenance cleanup finished",
		"idempotency_deleted", affected["idempotency"],
		"outbox_deleted", affected["outbox"],
	)
	return affected, nil
}
