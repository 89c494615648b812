// Package factors provides a fluent builder for emission factor tables used
// in tests, so each test states only the factors it depends on.
//
// Example usage:
//
//	table := factors.NewBuilder(t).
//		WithFixture(factors.FixtureBaseline).
//		With(model.CategoryDiet, model.UnitDay, "vegan", 1.0).
//		Table()
package factors

import (
	"testing"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

// Builder accumulates factors and builds a validated table.
type Builder struct {
	t       *testing.T
	factors []footprint.Factor
}

// NewBuilder returns an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// With adds one factor. An empty variant is the baseline for the pair.
func (b *Builder) With(category model.Category, unit model.Unit, variant string, kgPerUnit float64) *Builder {
	b.factors = append(b.factors, footprint.Factor{
		Key:       footprint.FactorKey{Category: category, Unit: unit, Variant: variant},
		KgPerUnit: kgPerUnit,
	})
	return b
}

// WithFixture adds every factor of a fixture.
func (b *Builder) WithFixture(f Fixture) *Builder {
	b.factors = append(b.factors, f.factors...)
	return b
}

// Factors returns the accumulated factors without validating them.
func (b *Builder) Factors() []footprint.Factor {
	out := make([]footprint.Factor, len(b.factors))
	copy(out, b.factors)
	return out
}

// Table builds the factor table or fails the test.
func (b *Builder) Table() *footprint.FactorTable {
	b.t.Helper()
	table, err := footprint.NewFactorTable(b.factors)
	if err != nil {
		b.t.Fatalf("invalid test factor table: %v", err)
	}
	return table
}

// Ledger builds a ledger over the table with the default daily thresholds.
func (b *Builder) Ledger(opts ...footprint.Option) *footprint.Ledger {
	b.t.Helper()
	ledger, err := footprint.NewLedger(b.Table(), footprint.DefaultThresholds(), opts...)
	if err != nil {
		b.t.Fatalf("failed to create test ledger: %v", err)
	}
	return ledger
}
