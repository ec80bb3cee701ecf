package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NewRecordID returns a fresh record identifier.
func NewRecordID() string { return uuid.NewString() }

// ParseRecordID validates an externally supplied identifier and returns its
// canonical form.
func ParseRecordID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id.String(), nil
}
