// Package storage provides the session journal for the eco application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidRecord  = errors.New("invalid activity record")
	ErrSessionExists  = errors.New("session already exists")
	ErrSessionMissing = errors.New("session not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord checks the fields the journal needs to replay a record.
// Pricing rules are the ledger's job and are re-applied on replay.
func validateRecord(r model.ActivityRecord) error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if r.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRecord)
	}
	if r.Unit == "" {
		return fmt.Errorf("%w: missing unit", ErrInvalidRecord)
	}
	if math.IsNaN(r.Quantity) || math.IsInf(r.Quantity, 0) {
		return fmt.Errorf("%w: quantity must be finite", ErrInvalidRecord)
	}
	if r.RecordedAt.IsZero() {
		return fmt.Errorf("%w: missing recorded time", ErrInvalidRecord)
	}
	return nil
}
