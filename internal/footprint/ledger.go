package footprint

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/google/uuid"
)

// Ledger accumulates the activities of one session. It is not safe for
// concurrent use; hosts serving several sessions keep one Ledger per session.
type Ledger struct {
	factors    *FactorTable
	now        func() time.Time
	newID      func() string
	records    []model.ActivityRecord
	thresholds Thresholds
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator sets the function used to assign record IDs.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// NewLedger creates an empty ledger priced by factors and classified by thresholds.
func NewLedger(factors *FactorTable, thresholds Thresholds, opts ...Option) (*Ledger, error) {
	if factors == nil {
		return nil, fmt.Errorf("%w: factor table is required", ErrInvalidFactorTable)
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	l := &Ledger{
		factors:    factors,
		thresholds: thresholds,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// AddActivity validates and prices entry, then appends it in call order.
// Duplicates are kept; repeated activities add up.
func (l *Ledger) AddActivity(entry model.ActivityEntry) (model.ActivityRecord, error) {
	rec, err := l.price(entry)
	if err != nil {
		return model.ActivityRecord{}, err
	}
	rec.ID = l.newID()
	rec.RecordedAt = l.now()

	l.records = append(l.records, rec)
	return rec, nil
}

// Replay re-prices previously recorded activities against the current factor
// table and appends them, keeping their IDs and timestamps. Either every
// record is accepted or the ledger is left unchanged.
func (l *Ledger) Replay(records []model.ActivityRecord) error {
	priced := make([]model.ActivityRecord, 0, len(records))
	for i, r := range records {
		rec, err := l.price(r.Entry())
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
		rec.ID = r.ID
		if rec.ID == "" {
			rec.ID = l.newID()
		}
		rec.RecordedAt = r.RecordedAt
		priced = append(priced, rec)
	}

	l.records = append(l.records, priced...)
	return nil
}

func (l *Ledger) price(entry model.ActivityEntry) (model.ActivityRecord, error) {
	if math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) || entry.Quantity < 0 {
		return model.ActivityRecord{}, fmt.Errorf("%w: %v must be a finite non-negative number", ErrInvalidQuantity, entry.Quantity)
	}
	if !entry.Category.IsValid() {
		return model.ActivityRecord{}, fmt.Errorf("%w: %q", ErrUnknownCategory, entry.Category)
	}
	if !entry.Category.Accepts(entry.Unit) {
		return model.ActivityRecord{}, fmt.Errorf("%w: %q is not a %s unit (valid: %v)", ErrInvalidUnit, entry.Unit, entry.Category, entry.Category.Units())
	}

	key := normalizeKey(FactorKey{Category: entry.Category, Unit: entry.Unit, Variant: entry.Variant})
	factor, ok := l.factors.Lookup(key)
	if !ok {
		return model.ActivityRecord{}, fmt.Errorf("%w: %s", ErrUnknownFactor, key)
	}

	return model.ActivityRecord{
		Category:    entry.Category,
		Unit:        entry.Unit,
		Variant:     key.Variant,
		Description: entry.Description,
		Quantity:    entry.Quantity,
		Factor:      factor,
		EmissionKg:  entry.Quantity * factor,
	}, nil
}

// Records returns a copy of the records in insertion order.
func (l *Ledger) Records() []model.ActivityRecord {
	return slices.Clone(l.records)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Total is the sum of every record's emission, in kg CO2.
func (l *Ledger) Total() float64 {
	var total float64
	for _, r := range l.records {
		total += r.EmissionKg
	}
	return total
}

// Breakdown sums emissions per category. Categories without records are omitted.
func (l *Ledger) Breakdown() map[model.Category]float64 {
	out := make(map[model.Category]float64)
	for _, r := range l.records {
		out[r.Category] += r.EmissionKg
	}
	return out
}

// Classify maps a total onto the ledger's impact tiers.
func (l *Ledger) Classify(total float64) model.ImpactTier {
	return l.thresholds.Classify(total)
}

// Tier classifies the current total.
func (l *Ledger) Tier() model.ImpactTier {
	return l.Classify(l.Total())
}

// Thresholds returns the tier bands in use.
func (l *Ledger) Thresholds() Thresholds {
	return l.thresholds
}

// Factors returns the factor table pricing this ledger.
func (l *Ledger) Factors() *FactorTable {
	return l.factors
}

// Reset drops every record.
func (l *Ledger) Reset() {
	l.records = nil
}
