package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Custom errors for better error handling
var (
	// ErrAlreadyIdentified is returned by Create when the entity already
	// carries an identifier. Creation is not an upsert.
	ErrAlreadyIdentified = errors.New("entity already has an identifier")

	// ErrNotFound is returned when a lookup or update target does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidAttribute is returned by FindBy for attribute names outside
	// the entity's allow-list. No query is issued for such names.
	ErrInvalidAttribute = errors.New("attribute not allowed for filtering")
)

// PersistenceError wraps any underlying storage or driver failure so that
// callers depend only on this package's error taxonomy, never on the raw
// driver errors.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// persistence wraps err in a PersistenceError for the named operation.
func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// DanglingReferenceError reports a stored foreign key that does not
// resolve to any existing row. This is a data-integrity failure, not a
// normal not-found.
type DanglingReferenceError struct {
	Kind string
	ID   uuid.UUID
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: %s %s does not exist", e.Kind, e.ID)
}
