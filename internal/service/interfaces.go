// Package service defines the interfaces shared between application layers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

// Storage defines the contract for the session journal.
// It records activity inputs only; emissions are recomputed on load.
type Storage interface {
	// Session operations
	CreateSession(ctx context.Context, name string) (*model.Session, error)
	GetSession(ctx context.Context, name string) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)
	DeleteSession(ctx context.Context, name string) error

	// Activity journal operations
	AppendActivity(ctx context.Context, sessionID string, record model.ActivityRecord) error
	ListActivities(ctx context.Context, sessionID string) ([]model.ActivityRecord, error)
	ClearActivities(ctx context.Context, sessionID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ActivityExtractor turns free text into untrusted extractions and suggests tips.
type ActivityExtractor interface {
	ExtractActivity(ctx context.Context, text string) (footprint.Extraction, error)
	SuggestTips(ctx context.Context, records []model.ActivityRecord) ([]model.EcoTip, error)
}

// ImportStats summarizes a bulk import.
type ImportStats struct {
	Duration time.Duration
	Total    int
	Added    int
	Rejected int
}
