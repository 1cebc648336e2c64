package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a lookup or removal targeting an absent id.
	ErrNotFound = errors.New("not found")

	// ErrForeignKey reports an increment referencing a counter that
	// does not exist. This is a caller bug (stale id), never retried.
	ErrForeignKey = errors.New("foreign key violation")
)

// ValidationError reports caller-supplied data violating a precondition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// constraintErr maps the driver's foreign-key constraint failure onto
// ErrForeignKey so callers can classify it with errors.Is. Everything
// else passes through as a storage failure.
func constraintErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}
	return err
}
