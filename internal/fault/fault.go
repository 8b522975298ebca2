// Package fault defines the error taxonomy shared by the stores, the
// occurrence resolver, and the HTTP handlers.
package fault

import (
	"errors"
	"fmt"
)

// ErrNotFound marks id-based lookups with no matching row.
var ErrNotFound = errors.New("not found")

// ValidationError rejects bad input at the form boundary. It never reaches
// the stores.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for a field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a backend failure. It is not subdivided further and is
// never retried automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for operation op.
func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// PartialFailure reports a multi-step write where a later step failed after
// an earlier step had already succeeded, e.g. a task row created but an
// assignment insert rejected.
type PartialFailure struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure: %s succeeded but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPartial reports whether err is a PartialFailure.
func IsPartial(err error) bool {
	var pf *PartialFailure
	return errors.As(err, &pf)
}
