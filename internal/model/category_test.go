package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "lowercase", input: "transport", want: CategoryTransport},
		{name: "capitalized", input: "Transport", want: CategoryTransport},
		{name: "padded", input: "  diet ", want: CategoryDiet},
		{name: "unknown", input: "aviation", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input   string
		want    Unit
		wantErr bool
	}{
		{input: "km", want: UnitKilometer},
		{input: "Kilometres", want: UnitKilometer},
		{input: "kWh", want: UnitKWh},
		{input: "hours", want: UnitHour},
		{input: "litres", want: UnitLiter},
		{input: "g", want: UnitGram},
		{input: "servings", want: UnitServing},
		{input: "furlongs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnit(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryAccepts(t *testing.T) {
	assert.True(t, CategoryTransport.Accepts(UnitKilometer))
	assert.False(t, CategoryTransport.Accepts(UnitLiter))
	assert.True(t, CategoryEnergy.Accepts(UnitHour))
	assert.False(t, Category("aviation").Accepts(UnitKilometer))
}

func TestEveryCategoryHasUnits(t *testing.T) {
	for _, c := range Categories {
		assert.NotEmpty(t, c.Units(), "category %s has no units", c)
		for _, u := range c.Units() {
			assert.True(t, u.IsValid())
		}
	}
	assert.Len(t, CategoryUnits, len(Categories))
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Transport", CategoryTransport.Title())
	assert.Equal(t, "", Category("").Title())
}

func TestImpactTierOrdering(t *testing.T) {
	assert.Equal(t, -1, TierLow.Compare(TierModerate))
	assert.Equal(t, -1, TierModerate.Compare(TierHigh))
	assert.Equal(t, 1, TierHigh.Compare(TierLow))
	assert.Equal(t, 0, TierModerate.Compare(TierModerate))
	assert.Equal(t, -1, ImpactTier("bogus").Rank())

	tier, err := ParseImpactTier("High")
	require.NoError(t, err)
	assert.Equal(t, TierHigh, tier)
	assert.Equal(t, "Low (sustainable)", TierLow.Label())
}

func TestActivityRecordEntry(t *testing.T) {
	rec := ActivityRecord{
		ID:          "abc",
		Category:    CategoryDiet,
		Unit:        UnitMeal,
		Variant:     "meat",
		Description: "burger",
		Quantity:    2,
		Factor:      2.5,
		EmissionKg:  5,
	}

	assert.Equal(t, ActivityEntry{
		Category:    CategoryDiet,
		Unit:        UnitMeal,
		Variant:     "meat",
		Description: "burger",
		Quantity:    2,
	}, rec.Entry())
}
