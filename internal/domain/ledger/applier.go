// Package ledger commits bottle and balance mutations atomically and reports
// what changed once the commit is durable.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/tx"
	"aquaops/pkg/logger"
)

// Invalidator is told which entities changed after a successful commit.
type Invalidator interface {
	Invalidate(ctx context.Context, changes []Change) error
}

// EventPublisher writes events inside the running transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// AuditWriter writes audit records inside the running transaction.
type AuditWriter interface {
	Write(ctx context.Context, record AuditRecord) error
}

// RetryClassifier reports whether a storage error is transient.
type RetryClassifier func(err error) bool

// Applier runs ledger operations as single units of work.
type Applier struct {
	txm         tx.Manager
	publisher   EventPublisher
	audit       AuditWriter
	invalidator Invalidator
	retryable   RetryClassifier
}

// Option configures an Applier.
type Option func(*Applier)

// WithPublisher sets the outbox publisher.
func WithPublisher(p EventPublisher) Option {
	return func(a *Applier) { a.publisher = p }
}

// WithAuditWriter sets the audit trail writer.
func WithAuditWriter(w AuditWriter) Option {
	return func(a *Applier) { a.audit = w }
}

// WithInvalidator sets the post-commit invalidation hook.
func WithInvalidator(i Invalidator) Option {
	return func(a *Applier) { a.invalidator = i }
}

// WithRetryClassifier sets how storage errors map to the retryable flag.
func WithRetryClassifier(c RetryClassifier) Option {
	return func(a *Applier) { a.retryable = c }
}

// NewApplier creates an Applier on top of a transaction manager.
func NewApplier(txm tx.Manager, opts ...Option) *Applier {
	a := &Applier{
		txm:       txm,
		retryable: defaultRetryable,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply runs fn in a transaction. Audit records and events queued on the
// change set are written in the same transaction. Business errors are
// returned unchanged; every other failure becomes TransactionFailed.
func (a *Applier) Apply(ctx context.Context, op string, fn func(ctx context.Context, cs *ChangeSet) error) error {
	var cs *ChangeSet

	err := a.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		cs = newChangeSet()
		if err := fn(txCtx, cs); err != nil {
			return err
		}
		if a.audit != nil {
			for _, r := range cs.audits {
				if err := a.audit.Write(txCtx, r); err != nil {
					return fmt.Errorf("write audit %s/%s: %w", r.EntityType, r.EntityID, err)
				}
			}
		}
		if a.publisher != nil {
			for _, e := range cs.events {
				if err := a.publisher.Publish(txCtx, e); err != nil {
					return fmt.Errorf("publish %s: %w", e.Type, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return a.fail(ctx, op, err)
	}

	a.invalidate(ctx, op, cs.Changes())

	logger.Debug(ctx, "ledger operation committed",
		"op", op,
		"changes", len(cs.changes),
		"events", len(cs.events),
	)
	return nil
}

func (a *Applier) fail(ctx context.Context, op string, err error) error {
	if appErr, ok := apperror.AsAppError(err); ok && appErr.Code != apperror.CodeInternal {
		logger.Info(ctx, "ledger operation rejected",
			"op", op,
			"code", appErr.Code,
			"details", appErr.Details,
		)
		return appErr
	}

	retryable := a.retryable(err)
	logger.Error(ctx, "ledger transaction failed",
		"op", op,
		"retryable", retryable,
		"error", err,
	)
	return apperror.NewTransactionFailed(err, retryable).WithDetail("operation", op)
}

func (a *Applier) invalidate(ctx context.Context, op string, changes []Change) {
	if a.invalidator == nil || len(changes) == 0 {
		return
	}
	if err := a.invalidator.Invalidate(ctx, changes); err != nil {
		logger.Warn(ctx, "post-commit invalidation failed",
			"op", op,
			"changes", changes,
			"error", err,
		)
	}
}

func defaultRetryable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// Invalidators fans a change list out to several invalidators.
type Invalidators []Invalidator

// Invalidate calls every invalidator and joins their errors.
func (is Invalidators) Invalidate(ctx context.Context, changes []Change) error {
	var errs []error
	for _, inv := range is {
		if inv == nil {
			continue
		}
		if err := inv.Invalidate(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
