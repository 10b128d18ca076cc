// Package identity generates and validates the opaque identifiers used
// by every entity in the registry.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMalformedIdentifier is returned when a caller-supplied identifier
// string is not a well-formed UUID.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// New produces a universally unique identifier.
func New() uuid.UUID {
	return uuid.New()
}

// Parse converts the external string form of an identifier into its
// canonical form.
func Parse(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, s)
	}
	return id, nil
}
