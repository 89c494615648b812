// Package export renders footprint reports for destinations outside the ledger.
package export

import (
	"context"
	"time"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

// ReportWriter writes a finished report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// Report is everything an export destination needs, captured at one instant.
type Report struct {
	GeneratedAt time.Time
	Session     string
	Period      string
	Tier        model.ImpactTier
	Rows        []footprint.ExportRow
	Breakdown   []footprint.CategoryShare
	Thresholds  footprint.Thresholds
	TotalKg     float64
}

// NewReport captures the ledger's current state.
func NewReport(ledger *footprint.Ledger, session, period string, now time.Time) Report {
	snapshot := ledger.Snapshot()
	return Report{
		GeneratedAt: now,
		Session:     session,
		Period:      period,
		Tier:        snapshot.Tier,
		Rows:        ledger.ExportRows(),
		Breakdown:   snapshot.Shares(),
		Thresholds:  snapshot.Thresholds,
		TotalKg:     snapshot.Total,
	}
}
