package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services. Stores return them, optionally wrapped,
// and handlers translate them into HTTP responses.
//
//   - ErrNotFound: the document type, record or reference does not exist
//   - ErrConflict: the targeted record is no longer the subject's current record
//   - ErrTransient: the backend of record is unreachable; callers may fall back to a snapshot
//   - ErrValidation: matched by every *ValidationError
//   - ErrUnauthorized, ErrForbidden: missing credentials or a role that may not act on the subject
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("document changed, please refresh")
	ErrTransient  = errors.New("backend temporarily unavailable")
	ErrValidation = errors.New("validation failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError names the single constraint an input failed.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint}
}

// Transient wraps a backend failure so that it matches ErrTransient while keeping the cause.
func Transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}
