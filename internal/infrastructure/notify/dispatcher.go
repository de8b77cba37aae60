// Package notify delivers outbox events to customers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/infrastructure/notify/whatsapp"
	"aquaops/internal/infrastructure/storage/postgres"
	"aquaops/pkg/logger"
)

// Sender sends a text message to a phone number.
type Sender interface {
	SendText(ctx context.Context, to, body string) (*whatsapp.SendTextResponse, error)
}

// Dispatcher is the outbox handler of the worker. Delivery receipts go to
// the customer's phone; other events are acknowledged without action.
type Dispatcher struct {
	sender Sender
}

var _ postgres.OutboxHandler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. A nil sender logs receipts instead
// of sending them.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Handle implements postgres.OutboxHandler. A returned error makes the
// relay retry the message.
func (d *Dispatcher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	switch msg.EventType {
	case delivery.EventRecorded:
		return d.deliveryReceipt(ctx, msg)
	default:
		logger.Debug(ctx, "outbox event without handler", "event_type", msg.EventType, "id", msg.ID)
		return nil
	}
}

func (d *Dispatcher) deliveryReceipt(ctx context.Context, msg *postgres.OutboxMessage) error {
	var n delivery.Notification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		// A payload that cannot be decoded will never succeed.
		logger.Error(ctx, "malformed delivery notification dropped", "id", msg.ID, "error", err)
		return nil
	}
	if whatsapp.NormalizePhone(n.Phone) == "" {
		logger.Info(ctx, "customer has no phone, receipt skipped", "delivery_id", n.DeliveryID)
		return nil
	}
	if d.sender == nil {
		logger.Info(ctx, "receipt not sent, whatsapp disabled", "delivery_id", n.DeliveryID, "text", n.Text())
		return nil
	}

	resp, err := d.sender.SendText(ctx, n.Phone, n.Text())
	if err != nil {
		return fmt.Errorf("send receipt %s: %w", n.Number, err)
	}
	logger.Info(ctx, "receipt sent", "delivery_id", n.DeliveryID, "message_id", resp.MessageID())
	return nil
}
