// Package validation provides request-level validation for the API layer.
// Business rules live in the service layer; this package only rejects
// requests that are malformed on their face.
package validation

import (
	"strconv"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
)

// ParseID parses a positive integer ID from its string form.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidID
	}
	return id, nil
}

// ValidateSymbol checks that a symbol path or query parameter is present.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return apperrors.ErrInvalidSymbol
	}
	return nil
}
