package footprint

import (
	"fmt"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/model"
)

// Extraction is a best-effort structured reading of free text produced by an
// external collaborator. It is untrusted: fields are parsed and validated
// here, and emissions are always computed by the ledger.
type Extraction struct {
	Quantity     *float64
	Category     string
	Unit         string
	Variant      string
	Description  string
	Missing      []string
	Insufficient bool
}

// Entry converts the extraction into a ledger entry. Missing quantity or unit,
// or an explicit insufficient-information signal, yields an
// *IncompleteActivityError; no defaults are guessed.
func (e Extraction) Entry() (model.ActivityEntry, error) {
	missing := e.missingFields()
	if e.Insufficient || len(missing) > 0 {
		if len(missing) == 0 {
			missing = normalizeFields(e.Missing)
		}
		return model.ActivityEntry{}, &IncompleteActivityError{Text: e.Description, Missing: missing}
	}

	category, err := model.ParseCategory(e.Category)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}
	unit, err := model.ParseUnit(e.Unit)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("%w: %q is not a known unit", ErrInvalidUnit, e.Unit)
	}

	return model.ActivityEntry{
		Category:    category,
		Unit:        unit,
		Variant:     e.Variant,
		Description: e.Description,
		Quantity:    *e.Quantity,
	}, nil
}

func (e Extraction) missingFields() []string {
	var missing []string
	if strings.TrimSpace(e.Category) == "" {
		missing = append(missing, "category")
	}
	if e.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(e.Unit) == "" {
		missing = append(missing, "unit")
	}
	return missing
}

func normalizeFields(fields []string) []string {
	var out []string
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// AddExtracted validates an extraction through the same rules as AddActivity.
func (l *Ledger) AddExtracted(e Extraction) (model.ActivityRecord, error) {
	entry, err := e.Entry()
	if err != nil {
		return model.ActivityRecord{}, err
	}
	return l.AddActivity(entry)
}
