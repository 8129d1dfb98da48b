// Package apperr defines the sentinel errors shared across folio packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
	ErrSnapshotMissing = errors.New("no session snapshot")
	ErrMalformedData   = errors.New("malformed persisted data")
	ErrSessionActive   = errors.New("edit session already active")
	ErrNotEditing      = errors.New("no active edit session")
	ErrInvalidField    = errors.New("invalid field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// PersistError reports that a mutation was applied in memory but could not
// be written to the key-value store. The change will not survive a reload.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsWarning reports whether err only degrades durability. Callers keep the
// in-memory result and surface the error as a warning.
func IsWarning(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
