package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/id"
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/infrastructure/notify/whatsapp"
	"aquaops/internal/infrastructure/storage/postgres"
)

type recordingSender struct {
	to, body string
	err      error
}

func (s *recordingSender) SendText(_ context.Context, to, body string) (*whatsapp.SendTextResponse, error) {
	s.to, s.body = to, body
	if s.err != nil {
		return nil, s.err
	}
	return &whatsapp.SendTextResponse{}, nil
}

func receipt(t *testing.T, phone string) *postgres.OutboxMessage {
	t.Helper()
	payload, err := json.Marshal(delivery.Notification{
		DeliveryID:   id.New().String(),
		Number:       "DLV-2024-00001",
		Day:          "2024-03-05",
		CustomerName: "Blue Tower",
		Phone:        phone,
		Filled:       6,
		Bill:         "50.00",
		Payment:      "20.00",
		Balance:      "30.00",
		Bottles:      4,
	})
	require.NoError(t, err)
	return &postgres.OutboxMessage{ID: id.New(), EventType: delivery.EventRecorded, Payload: payload}
}

func TestDispatcher_SendsDeliveryReceipt(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender)

	require.NoError(t, d.Handle(context.Background(), receipt(t, "+971500000001")))
	assert.Equal(t, "+971500000001", sender.to)
	assert.Contains(t, sender.body, "DLV-2024-00001")
	assert.Contains(t, sender.body, "Balance due: 30.00")
}

func TestDispatcher_SendFailureIsRetried(t *testing.T) {
	d := NewDispatcher(&recordingSender{err: errors.New("timeout")})

	err := d.Handle(context.Background(), receipt(t, "+971500000001"))
	assert.ErrorContains(t, err, "timeout")
}

func TestDispatcher_SkipsWithoutPhoneOrSender(t *testing.T) {
	sender := &recordingSender{}
	require.NoError(t, NewDispatcher(sender).Handle(context.Background(), receipt(t, "")))
	assert.Empty(t, sender.to)

	require.NoError(t, NewDispatcher(nil).Handle(context.Background(), receipt(t, "+1 555 0100")))
}

func TestDispatcher_AcknowledgesOtherEvents(t *testing.T) {
	d := NewDispatcher(&recordingSender{err: errors.New("must not be called")})
	msg := &postgres.OutboxMessage{ID: id.New(), EventType: "usage.taken", Payload: []byte(`{}`)}

	assert.NoError(t, d.Handle(context.Background(), msg))
}
