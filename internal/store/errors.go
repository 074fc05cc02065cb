package store

import (
	"fmt"
	"strings"

	"github.com/acampos/matriculabot/internal/domain"
)

// isUniqueViolation checks if the error is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as text, not typed errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy checks if the error is an SQLITE_BUSY or "database is locked"
// concurrency error.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// mapError translates driver errors into the domain taxonomy, keeping the
// original message for logs.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrDuplicate)
	case isBusy(err):
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
