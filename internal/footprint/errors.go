package footprint

import (
	"errors"
	"fmt"
	"strings"
)

// Ledger validation errors. A failed operation never changes ledger state.
var (
	ErrInvalidUnit        = errors.New("invalid unit for category")
	ErrUnknownFactor      = errors.New("no emission factor configured")
	ErrIncompleteActivity = errors.New("incomplete activity")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnknownCategory    = errors.New("unknown category")

	// ErrInvalidFactorTable is returned when a factor table fails construction checks.
	ErrInvalidFactorTable = errors.New("invalid factor table")
	// ErrInvalidThresholds is returned when tier bands are not ordered.
	ErrInvalidThresholds = errors.New("invalid tier thresholds")
)

// IncompleteActivityError reports which fields an extracted activity was missing.
type IncompleteActivityError struct {
	Text    string
	Missing []string
}

func (e *IncompleteActivityError) Error() string {
	if len(e.Missing) == 0 {
		return ErrIncompleteActivity.Error() + ": insufficient information"
	}
	return fmt.Sprintf("%s: missing %s", ErrIncompleteActivity, strings.Join(e.Missing, ", "))
}

func (e *IncompleteActivityError) Unwrap() error {
	return ErrIncompleteActivity
}

// Needs reports whether field is among the missing ones.
func (e *IncompleteActivityError) Needs(field string) bool {
	for _, m := range e.Missing {
		if m == field {
			return true
		}
	}
	return false
}
