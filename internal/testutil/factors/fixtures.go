package factors

import (
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

// Fixture is a named, predefined set of factors.
type Fixture struct {
	name    string
	factors []footprint.Factor
}

// Name returns the fixture's descriptive name.
func (f Fixture) Name() string { return f.name }

func factor(category model.Category, unit model.Unit, variant string, kg float64) footprint.Factor {
	return footprint.Factor{
		Key:       footprint.FactorKey{Category: category, Unit: unit, Variant: variant},
		KgPerUnit: kg,
	}
}

// Predefined fixtures.
var (
	// FixtureBaseline has one baseline factor per category, enough for a
	// table to be valid. Transport is priced at 0.23 kg/km and energy at
	// 0.5 kg/kWh.
	FixtureBaseline = Fixture{
		name: "Baseline",
		factors: []footprint.Factor{
			factor(model.CategoryTransport, model.UnitKilometer, "", 0.23),
			factor(model.CategoryEnergy, model.UnitKWh, "", 0.5),
			factor(model.CategoryDiet, model.UnitMeal, "", 2.5),
			factor(model.CategoryWater, model.UnitLiter, "", 0.001),
			factor(model.CategoryWaste, model.UnitGram, "", 0.006),
			factor(model.CategoryOther, model.UnitKilogram, "", 1.0),
		},
	}

	// FixtureVariants adds named variants, including diet/day which has
	// no baseline.
	FixtureVariants = Fixture{
		name: "Variants",
		factors: []footprint.Factor{
			factor(model.CategoryTransport, model.UnitKilometer, "diesel", 0.20),
			factor(model.CategoryTransport, model.UnitKilometer, "bicycle", 0),
			factor(model.CategoryEnergy, model.UnitHour, "ac", 0.6),
			factor(model.CategoryDiet, model.UnitMeal, "beef", 7.7),
			factor(model.CategoryDiet, model.UnitDay, "vegan", 1.0),
			factor(model.CategoryDiet, model.UnitDay, "vegetarian", 1.5),
		},
	}
)
