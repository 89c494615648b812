package model

import "time"

// ActivityEntry is a single user-reported activity before it has been priced.
type ActivityEntry struct {
	Category    Category
	Unit        Unit
	Variant     string
	Description string
	Quantity    float64
}

// ActivityRecord is an activity accepted into a ledger.
// EmissionKg is always Quantity * Factor and is only produced by the ledger.
type ActivityRecord struct {
	RecordedAt  time.Time
	ID          string
	Category    Category
	Unit        Unit
	Variant     string
	Description string
	Quantity    float64
	Factor      float64
	EmissionKg  float64
}

// Entry returns the input the record was created from.
func (r ActivityRecord) Entry() ActivityEntry {
	return ActivityEntry{
		Category:    r.Category,
		Unit:        r.Unit,
		Variant:     r.Variant,
		Description: r.Description,
		Quantity:    r.Quantity,
	}
}

// Session is a named, independently owned ledger scope.
type Session struct {
	CreatedAt time.Time
	ID        string
	Name      string
}
