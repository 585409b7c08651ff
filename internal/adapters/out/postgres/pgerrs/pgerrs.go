// Package pgerrs maps Postgres failures onto the errors the core understands.
package pgerrs

import (
	"errors"
	"fmt"

	"gasdelivery/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err is a serialization failure or a deadlock, after which the whole
// transaction may be run again.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

// Translate turns driver errors into errs types. entity and id describe what was being written.
func Translate(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundErrorWithCause(entity, id, err)
	}
	if IsRetryable(err) {
		return fmt.Errorf("%w: %w", errs.NewVersionConflictError(entity, id, 0), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return errs.NewValueIsInvalidErrorWithCause(entity, fmt.Errorf("%s already exists: %s", sanitizeID(id), pgErr.ConstraintName))
	}
	return err
}

func sanitizeID(id any) string {
	return fmt.Sprintf("%v", id)
}
