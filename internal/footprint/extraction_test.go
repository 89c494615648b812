package footprint

import (
	"errors"
	"testing"

	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestAddExtracted(t *testing.T) {
	tests := []struct {
		wantErr     error
		name        string
		wantMissing []string
		extraction  Extraction
		wantKg      float64
	}{
		{
			name:       "complete extraction",
			extraction: Extraction{Category: "Transport", Quantity: ptr(15), Unit: "kilometers", Description: "drove to work"},
			wantKg:     3.45,
		},
		{
			name:       "variant is honored",
			extraction: Extraction{Category: "transport", Quantity: ptr(10), Unit: "km", Variant: "diesel"},
			wantKg:     2.0,
		},
		{
			name:        "missing quantity",
			extraction:  Extraction{Category: "transport", Unit: "km"},
			wantErr:     ErrIncompleteActivity,
			wantMissing: []string{"quantity"},
		},
		{
			name:        "missing unit and quantity",
			extraction:  Extraction{Category: "diet"},
			wantErr:     ErrIncompleteActivity,
			wantMissing: []string{"quantity", "unit"},
		},
		{
			name:        "insufficient signal",
			extraction:  Extraction{Insufficient: true, Missing: []string{" Category "}},
			wantErr:     ErrIncompleteActivity,
			wantMissing: []string{"category", "quantity", "unit"},
		},
		{
			name:        "insufficient signal with complete fields",
			extraction:  Extraction{Insufficient: true, Category: "diet", Quantity: ptr(1), Unit: "meal", Missing: []string{"variant"}},
			wantErr:     ErrIncompleteActivity,
			wantMissing: []string{"variant"},
		},
		{
			name:       "unknown unit text",
			extraction: Extraction{Category: "transport", Quantity: ptr(10), Unit: "furlongs"},
			wantErr:    ErrInvalidUnit,
		},
		{
			name:       "unit of another category",
			extraction: Extraction{Category: "transport", Quantity: ptr(10), Unit: "liters"},
			wantErr:    ErrInvalidUnit,
		},
		{
			name:       "unknown category text",
			extraction: Extraction{Category: "aviation", Quantity: ptr(10), Unit: "km"},
			wantErr:    ErrUnknownCategory,
		},
		{
			name:       "negative quantity",
			extraction: Extraction{Category: "water", Quantity: ptr(-5), Unit: "l"},
			wantErr:    ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)

			rec, err := l.AddExtracted(tt.extraction)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, l.Len())
				if tt.wantMissing != nil {
					var incomplete *IncompleteActivityError
					require.True(t, errors.As(err, &incomplete))
					assert.Equal(t, tt.wantMissing, incomplete.Missing)
				}
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantKg, rec.EmissionKg, delta)
			assert.InDelta(t, tt.wantKg, l.Total(), delta)
		})
	}
}

func TestIncompleteActivityError(t *testing.T) {
	err := &IncompleteActivityError{Missing: []string{"quantity", "unit"}}
	assert.Equal(t, "incomplete activity: missing quantity, unit", err.Error())
	assert.True(t, err.Needs("unit"))
	assert.False(t, err.Needs("category"))
	assert.ErrorIs(t, err, ErrIncompleteActivity)

	empty := &IncompleteActivityError{}
	assert.Contains(t, empty.Error(), "insufficient information")
}

func TestExtractionEntry(t *testing.T) {
	entry, err := Extraction{Category: "Energy", Quantity: ptr(4), Unit: "hours", Variant: "ac", Description: "air conditioning"}.Entry()
	require.NoError(t, err)
	assert.Equal(t, model.ActivityEntry{
		Category:    model.CategoryEnergy,
		Unit:        model.UnitHour,
		Variant:     "ac",
		Description: "air conditioning",
		Quantity:    4,
	}, entry)
}
