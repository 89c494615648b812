package footprint

import (
	"sort"
	"time"

	"github.com/Veraticus/eco-ledger/internal/model"
)

// Snapshot is a read-only view of a ledger for presentation layers.
type Snapshot struct {
	Breakdown  map[model.Category]float64
	Tier       model.ImpactTier
	Records    []model.ActivityRecord
	Thresholds Thresholds
	Total      float64
}

// CategoryShare is one category's part of the total.
type CategoryShare struct {
	Category   model.Category
	EmissionKg float64
	Share      float64
}

// Snapshot captures the ledger's current state.
func (l *Ledger) Snapshot() Snapshot {
	total := l.Total()
	return Snapshot{
		Records:    l.Records(),
		Total:      total,
		Breakdown:  l.Breakdown(),
		Tier:       l.Classify(total),
		Thresholds: l.thresholds,
	}
}

// Shares returns the breakdown sorted by emission, largest first. Share is
// the fraction of the total, or zero when the total is zero.
func (s Snapshot) Shares() []CategoryShare {
	out := make([]CategoryShare, 0, len(s.Breakdown))
	for c, kg := range s.Breakdown {
		share := 0.0
		if s.Total > 0 {
			share = kg / s.Total
		}
		out = append(out, CategoryShare{Category: c, EmissionKg: kg, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmissionKg != out[j].EmissionKg {
			return out[i].EmissionKg > out[j].EmissionKg
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ExportRow is the tabular projection of one record.
type ExportRow struct {
	RecordedAt  time.Time
	Category    model.Category
	Variant     string
	Description string
	Unit        model.Unit
	Quantity    float64
	Factor      float64
	EmissionKg  float64
}

// ExportRows projects the records, in ledger order, for export collaborators.
func (l *Ledger) ExportRows() []ExportRow {
	rows := make([]ExportRow, 0, len(l.records))
	for _, r := range l.records {
		rows = append(rows, ExportRow{
			RecordedAt:  r.RecordedAt,
			Category:    r.Category,
			Variant:     r.Variant,
			Description: r.Description,
			Unit:        r.Unit,
			Quantity:    r.Quantity,
			Factor:      r.Factor,
			EmissionKg:  r.EmissionKg,
		})
	}
	return rows
}
