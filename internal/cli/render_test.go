package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/testutil/factors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLedger(t *testing.T) *footprint.Ledger {
	t.Helper()
	return factors.NewBuilder(t).
		WithFixture(factors.FixtureBaseline).
		WithFixture(factors.FixtureVariants).
		Ledger()
}

func TestRenderReport(t *testing.T) {
	ledger := testLedger(t)
	_, err := ledger.AddActivity(model.ActivityEntry{Category: model.CategoryTransport, Quantity: 15, Unit: model.UnitKilometer, Description: "drive"})
	require.NoError(t, err)
	_, err = ledger.AddActivity(model.ActivityEntry{Category: model.CategoryEnergy, Quantity: 3, Unit: model.UnitKWh})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, "Today", ledger.Snapshot()))

	out := buf.String()
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "drive")
	assert.Contains(t, out, "Transport")
	assert.Contains(t, out, "3.45")
	assert.Contains(t, out, "4.95")
	assert.Contains(t, out, "69.7%")
	assert.Contains(t, out, "Low (sustainable)")
}

func TestRenderReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, "Today", testLedger(t).Snapshot()))
	assert.Contains(t, buf.String(), "No activities logged yet.")
}

func TestRenderRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRecord(&buf, model.ActivityRecord{
		Category:   model.CategoryDiet,
		Variant:    "beef",
		Unit:       model.UnitMeal,
		Quantity:   1,
		Factor:     7.7,
		EmissionKg: 7.7,
	}))
	assert.Contains(t, buf.String(), "Diet (beef)")
	assert.Contains(t, buf.String(), "7.70 kg CO2e")
}

func TestRenderFactors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderFactors(&buf, testLedger(t).Factors()))
	out := buf.String()
	assert.Contains(t, out, "beef")
	assert.Contains(t, out, "(baseline)")
	assert.Contains(t, out, "0.23")
}

func TestRenderThresholds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderThresholds(&buf, "daily", footprint.DefaultThresholds()))
	assert.Contains(t, buf.String(), "below 5 kg")
	assert.Contains(t, buf.String(), "from 15 kg")
}

func TestRenderTips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTips(&buf, []model.EcoTip{
		{Title: "Cycle to work", Impact: model.TipImpactHigh, Category: model.CategoryTransport},
		{Title: "Shorter showers", Impact: model.TipImpactLow, Category: model.CategoryWater},
	}))
	assert.Contains(t, buf.String(), "1. Cycle to work")
	assert.Contains(t, buf.String(), "2. Shorter showers")
}

func TestRenderSessions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSessions(&buf, nil, ""))
	assert.Contains(t, buf.String(), "No sessions yet")

	buf.Reset()
	created := time.Date(2025, 4, 22, 9, 0, 0, 0, time.UTC)
	require.NoError(t, RenderSessions(&buf, []model.Session{
		{Name: "home", CreatedAt: created},
		{Name: "trip", CreatedAt: created},
	}, "trip"))
	assert.Contains(t, buf.String(), "home")
	assert.Contains(t, buf.String(), "* ")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "15", formatNumber(15))
	assert.Equal(t, "0.23", formatNumber(0.23))
	assert.Equal(t, "0.001", formatNumber(0.001))
	assert.Equal(t, "0.0003", formatNumber(0.0003))
	assert.Equal(t, "12.5", formatNumber(12.5))
}

func TestRenderFactors_SmallFactor(t *testing.T) {
	table := factors.NewBuilder(t).
		WithFixture(factors.FixtureBaseline).
		With(model.CategoryWater, model.UnitLiter, "bottled", 0.0003).
		Table()

	var buf bytes.Buffer
	require.NoError(t, RenderFactors(&buf, table))
	assert.Contains(t, buf.String(), "bottled")
	assert.Contains(t, buf.String(), "0.0003")
}

func TestShareBar(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = shareBar(-0.5)
		_ = shareBar(1.5)
	})
}
