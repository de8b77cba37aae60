package memory

import (
	"context"
	"time"

	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/id"
	"aquaops/internal/domain/audit"
	"aquaops/internal/domain/ledger"
)

// Outbox implements ledger.EventPublisher by keeping events in the store.
// Events roll back with the transaction that published them.
type Outbox struct {
	store *Store
}

var _ ledger.EventPublisher = (*Outbox)(nil)

// Outbox returns the in-memory event publisher.
func (s *Store) Outbox() *Outbox {
	return &Outbox{store: s}
}

func (o *Outbox) Publish(_ context.Context, e ledger.Event) error {
	return o.store.write(func(st *state) error {
		st.events = append(st.events, e)
		return nil
	})
}

// AuditLog implements ledger.AuditWriter and audit.Reader.
type AuditLog struct {
	store *Store
	now   func() time.Time
}

var (
	_ ledger.AuditWriter = (*AuditLog)(nil)
	_ audit.Reader       = (*AuditLog)(nil)
)

// Audit returns the in-memory audit log.
func (s *Store) Audit() *AuditLog {
	return &AuditLog{store: s, now: time.Now}
}

func (a *AuditLog) Write(ctx context.Context, r ledger.AuditRecord) error {
	entry := audit.Entry{
		ID:         id.New(),
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		ActorID:    appctx.GetActorID(ctx),
		RequestID:  appctx.GetRequestID(ctx),
		Changes:    r.Changes,
		CreatedAt:  a.now().UTC(),
	}
	return a.store.write(func(st *state) error {
		st.audit = append(st.audit, entry)
		return nil
	})
}

func (a *AuditLog) History(_ context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	var out []audit.Entry
	a.store.read(func(st *state) {
		for i := len(st.audit) - 1; i >= 0; i-- {
			e := st.audit[i]
			if e.EntityType != entityType || e.EntityID != entityID {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}
