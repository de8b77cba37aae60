package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
)

type txKey struct{}

type fakeTxManager struct {
	commits   int
	rollbacks int
	beginErr  error
	commitErr error
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.rollbacks++
		return err
	}
	if m.commitErr != nil {
		m.rollbacks++
		return m.commitErr
	}
	m.commits++
	return nil
}

type recordingInvalidator struct {
	calls [][]Change
	err   error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, changes []Change) error {
	r.calls = append(r.calls, changes)
	return r.err
}

type recordingPublisher struct {
	events []Event
	inTx   []bool
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e Event) error {
	p.events = append(p.events, e)
	p.inTx = append(p.inTx, ctx.Value(txKey{}) == true)
	return p.err
}

type recordingAudit struct {
	records []AuditRecord
}

func (a *recordingAudit) Write(_ context.Context, r AuditRecord) error {
	a.records = append(a.records, r)
	return nil
}

func TestApply_CommitsAndInvalidates(t *testing.T) {
	txm := &fakeTxManager{}
	inv := &recordingInvalidator{}
	pub := &recordingPublisher{}
	aud := &recordingAudit{}
	a := NewApplier(txm, WithInvalidator(inv), WithPublisher(pub), WithAuditWriter(aud))

	deliveryID := id.New()
	err := a.Apply(context.Background(), "delivery.create", func(ctx context.Context, cs *ChangeSet) error {
		cs.Touch(EntityTotalBottles, "singleton")
		cs.Touch(EntityTotalBottles, "singleton")
		cs.Audit(AuditRecord{EntityType: EntityDelivery, EntityID: deliveryID, Action: ActionCreate})
		cs.Emit(Event{Type: "delivery.recorded", AggregateID: deliveryID})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, txm.commits)
	require.Len(t, inv.calls, 1)
	assert.Equal(t, []Change{
		{Entity: EntityTotalBottles, ID: "singleton"},
		{Entity: EntityDelivery, ID: deliveryID.String()},
	}, inv.calls[0])
	require.Len(t, pub.events, 1)
	assert.True(t, pub.inTx[0], "events are published inside the transaction")
	assert.Len(t, aud.records, 1)
}

func TestApply_BusinessErrorPassesThrough(t *testing.T) {
	txm := &fakeTxManager{}
	inv := &recordingInvalidator{}
	a := NewApplier(txm, WithInvalidator(inv))

	err := a.Apply(context.Background(), "delivery.create", func(ctx context.Context, cs *ChangeSet) error {
		cs.Touch(EntityBottleUsage, "u1")
		return apperror.NewInsufficientStock("remaining_bottles", 150, 100)
	})

	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, 1, txm.rollbacks)
	assert.Empty(t, inv.calls, "nothing is invalidated when nothing committed")
}

func TestApply_StorageErrorBecomesTransactionFailed(t *testing.T) {
	txm := &fakeTxManager{commitErr: errors.New("connection reset")}
	a := NewApplier(txm)

	err := a.Apply(context.Background(), "usage.take", func(ctx context.Context, cs *ChangeSet) error {
		return nil
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTransactionFailed, appErr.Code)
	assert.False(t, appErr.Retryable)
	assert.Equal(t, "usage.take", appErr.Details["operation"])
}

func TestApply_RetryClassifier(t *testing.T) {
	transient := errors.New("40001")
	txm := &fakeTxManager{beginErr: transient}
	a := NewApplier(txm, WithRetryClassifier(func(err error) bool { return errors.Is(err, transient) }))

	err := a.Apply(context.Background(), "op", func(ctx context.Context, cs *ChangeSet) error { return nil })

	assert.True(t, apperror.IsRetryable(err))
	assert.True(t, apperror.HasCode(err, apperror.CodeTransactionFailed))
}

func TestApply_PublishFailureRollsBack(t *testing.T) {
	txm := &fakeTxManager{}
	pub := &recordingPublisher{err: errors.New("outbox down")}
	a := NewApplier(txm, WithPublisher(pub))

	err := a.Apply(context.Background(), "delivery.create", func(ctx context.Context, cs *ChangeSet) error {
		cs.Emit(Event{Type: "delivery.recorded"})
		return nil
	})

	assert.True(t, apperror.HasCode(err, apperror.CodeTransactionFailed))
	assert.Equal(t, 1, txm.rollbacks)
	assert.Equal(t, 0, txm.commits)
}

func TestApply_InvalidationFailureIsNotReturned(t *testing.T) {
	txm := &fakeTxManager{}
	inv := &recordingInvalidator{err: errors.New("notify failed")}
	a := NewApplier(txm, WithInvalidator(inv))

	err := a.Apply(context.Background(), "op", func(ctx context.Context, cs *ChangeSet) error {
		cs.Touch(EntityCustomer, "c1")
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, inv.calls, 1)
}

func TestInvalidators_JoinsErrors(t *testing.T) {
	ok := &recordingInvalidator{}
	bad := &recordingInvalidator{err: errors.New("boom")}

	err := Invalidators{ok, nil, bad}.Invalidate(context.Background(), []Change{{Entity: "x", ID: "1"}})

	assert.ErrorContains(t, err, "boom")
	assert.Len(t, ok.calls, 1)
	assert.Len(t, bad.calls, 1)
}
