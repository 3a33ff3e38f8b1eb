package user

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrPersistence wraps every failure of the underlying store.
	ErrPersistence = errors.New("persistence failure")
	// ErrConstraintViolation marks writes rejected by an integrity constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// persistenceError wraps a driver error, adding ErrConstraintViolation when
// the SQLSTATE belongs to class 23.
func persistenceError(op string, sqlState string, err error) error {
	if sqlState != "" && pgerrcode.IsIntegrityConstraintViolation(sqlState) {
		return fmt.Errorf("repository: %s: %w: %w: %w", op, ErrPersistence, ErrConstraintViolation, err)
	}
	return fmt.Errorf("repository: %s: %w: %w", op, ErrPersistence, err)
}
