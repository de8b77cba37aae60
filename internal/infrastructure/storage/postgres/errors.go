package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"aquaops/internal/core/apperror"
)

// SQLSTATE codes the ledger reacts to.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateCheckViolation       = "23514"
)

// IsRetryable reports whether err is a transient database failure that the
// caller may retry as a whole.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return false
}

// IsUniqueViolation reports a unique constraint failure, optionally on a
// specific constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != sqlStateUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// mapError turns well-known constraint failures into business errors and
// wraps everything else with the operation name.
func mapError(err error, op, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entity, "")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return apperror.NewDuplicate(entity, pgErr.ConstraintName, "").WithCause(err)
		case sqlStateForeignKeyViolation:
			return apperror.NewConflict(fmt.Sprintf("%s is referenced by other records", entity)).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case sqlStateCheckViolation:
			return apperror.NewValidation(fmt.Sprintf("%s violates %s", entity, pgErr.ConstraintName)).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
