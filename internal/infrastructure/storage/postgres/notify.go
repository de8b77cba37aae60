package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"aquaops/internal/domain/ledger"
)

// Notifier broadcasts committed changes to other instances with pg_notify.
type Notifier struct {
	txManager *TxManager
	channel   string
}

var _ ledger.Invalidator = (*Notifier)(nil)

// NewNotifier creates a notifier publishing on channel.
func NewNotifier(txManager *TxManager, channel string) *Notifier {
	return &Notifier{txManager: txManager, channel: channel}
}

// Invalidate sends the change list as a JSON payload.
func (n *Notifier) Invalidate(ctx context.Context, changes []ledger.Change) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	if _, err := n.txManager.GetQuerier(ctx).Exec(ctx, "SELECT pg_notify($1, $2)", n.channel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", n.channel, err)
	}
	return nil
}
