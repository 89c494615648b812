package llm

import (
	"testing"

	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare object", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "plain fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", input: "Sure! Here it is: {\"a\":1} Hope that helps.", want: `{"a":1}`},
		{name: "no object", input: "nothing here", want: "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.input))
		})
	}
}

func TestParseExtraction(t *testing.T) {
	t.Run("complete reply", func(t *testing.T) {
		got, err := parseExtraction(`{"category":"transport","quantity":12,"unit":"km","variant":"bus","insufficient":false,"missing":[]}`, " took the bus 12 km ")
		require.NoError(t, err)
		require.NotNil(t, got.Quantity)
		assert.InDelta(t, 12.0, *got.Quantity, 1e-12)
		assert.Equal(t, "transport", got.Category)
		assert.Equal(t, "km", got.Unit)
		assert.Equal(t, "bus", got.Variant)
		assert.Equal(t, "took the bus 12 km", got.Description)
		assert.False(t, got.Insufficient)
	})

	t.Run("null quantity and unit", func(t *testing.T) {
		got, err := parseExtraction(`{"category":"transport","quantity":null,"unit":null,"missing":["quantity","unit"]}`, "I drove to work")
		require.NoError(t, err)
		assert.Nil(t, got.Quantity)
		assert.Empty(t, got.Unit)
		assert.Equal(t, []string{"quantity", "unit"}, got.Missing)
	})

	t.Run("numeric string quantity", func(t *testing.T) {
		got, err := parseExtraction(`{"category":"water","quantity":"40.5","unit":"liter"}`, "shower")
		require.NoError(t, err)
		require.NotNil(t, got.Quantity)
		assert.InDelta(t, 40.5, *got.Quantity, 1e-12)
	})

	t.Run("emission figures are dropped", func(t *testing.T) {
		got, err := parseExtraction(`{"category":"energy","quantity":3,"unit":"kwh","emission":99,"emission_kg":99}`, "heater")
		require.NoError(t, err)
		assert.Equal(t, "energy", got.Category)
		require.NotNil(t, got.Quantity)
		assert.InDelta(t, 3.0, *got.Quantity, 1e-12)
	})

	t.Run("insufficient flag", func(t *testing.T) {
		got, err := parseExtraction(`{"category":"","quantity":null,"unit":null,"insufficient":true}`, "hello there")
		require.NoError(t, err)
		assert.True(t, got.Insufficient)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseExtraction(`category: transport`, "x")
		require.Error(t, err)
	})

	t.Run("non numeric quantity", func(t *testing.T) {
		_, err := parseExtraction(`{"category":"transport","quantity":"a lot","unit":"km"}`, "x")
		require.Error(t, err)
	})
}

func TestParseTips(t *testing.T) {
	content := `Suggestion|Impact|Category
1. Use reusable bags|High|Waste
- Take the bus twice a week | medium | transport
Eat one plant-based meal a day|Moderate|diet
Plant a tree|huge|other
not a tip at all
Fix dripping taps|Low|plumbing
`
	tips := parseTips(content)
	require.Len(t, tips, 4)

	assert.Equal(t, model.EcoTip{Title: "Use reusable bags", Impact: model.TipImpactHigh, Category: model.CategoryWaste}, tips[0])
	assert.Equal(t, model.EcoTip{Title: "Take the bus twice a week", Impact: model.TipImpactMedium, Category: model.CategoryTransport}, tips[1])
	assert.Equal(t, model.TipImpactMedium, tips[2].Impact)
	assert.Equal(t, model.CategoryDiet, tips[2].Category)
	assert.Equal(t, model.EcoTip{Title: "Fix dripping taps", Impact: model.TipImpactLow, Category: model.CategoryOther}, tips[3])
}

func TestParseTips_Empty(t *testing.T) {
	assert.Empty(t, parseTips(""))
	assert.Empty(t, parseTips("I cannot help with that."))
}
