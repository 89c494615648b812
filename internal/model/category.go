// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Category groups activities that share an emission source.
type Category string

// Category constants.
const (
	CategoryTransport Category = "transport"
	CategoryEnergy    Category = "energy"
	CategoryDiet      Category = "diet"
	CategoryWater     Category = "water"
	CategoryWaste     Category = "waste"
	CategoryOther     Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTransport,
	CategoryEnergy,
	CategoryDiet,
	CategoryWater,
	CategoryWaste,
	CategoryOther,
}

// Unit is the measure a quantity is reported in.
type Unit string

// Unit constants.
const (
	UnitKilometer Unit = "km"
	UnitKWh       Unit = "kwh"
	UnitHour      Unit = "hour"
	UnitMeal      Unit = "meal"
	UnitServing   Unit = "serving"
	UnitDay       Unit = "day"
	UnitLiter     Unit = "liter"
	UnitKilogram  Unit = "kg"
	UnitGram      Unit = "gram"
)

// CategoryUnits is the fixed schema of units each category may be reported in.
// Factor tables may only configure factors for these pairs.
var CategoryUnits = map[Category][]Unit{
	CategoryTransport: {UnitKilometer},
	CategoryEnergy:    {UnitKWh, UnitHour, UnitKilogram},
	CategoryDiet:      {UnitMeal, UnitServing, UnitDay},
	CategoryWater:     {UnitLiter},
	CategoryWaste:     {UnitGram, UnitKilogram},
	CategoryOther:     {UnitHour, UnitKilogram},
}

var unitAliases = map[string]Unit{
	"km":         UnitKilometer,
	"kms":        UnitKilometer,
	"kilometer":  UnitKilometer,
	"kilometers": UnitKilometer,
	"kilometre":  UnitKilometer,
	"kilometres": UnitKilometer,
	"kwh":        UnitKWh,
	"kw-h":       UnitKWh,
	"hour":       UnitHour,
	"hours":      UnitHour,
	"hr":         UnitHour,
	"hrs":        UnitHour,
	"h":          UnitHour,
	"meal":       UnitMeal,
	"meals":      UnitMeal,
	"serving":    UnitServing,
	"servings":   UnitServing,
	"day":        UnitDay,
	"days":       UnitDay,
	"liter":      UnitLiter,
	"liters":     UnitLiter,
	"litre":      UnitLiter,
	"litres":     UnitLiter,
	"l":          UnitLiter,
	"kg":         UnitKilogram,
	"kgs":        UnitKilogram,
	"kilogram":   UnitKilogram,
	"kilograms":  UnitKilogram,
	"gram":       UnitGram,
	"grams":      UnitGram,
	"g":          UnitGram,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := CategoryUnits[c]
	return ok
}

// Title returns the capitalized display name.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Units returns the units valid for the category.
func (c Category) Units() []Unit {
	return slices.Clone(CategoryUnits[c])
}

// Accepts reports whether u is a valid unit for the category.
func (c Category) Accepts(u Unit) bool {
	return slices.Contains(CategoryUnits[c], u)
}

// ParseCategory converts user or model supplied text into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// IsValid reports whether u is a known unit.
func (u Unit) IsValid() bool {
	for _, units := range CategoryUnits {
		if slices.Contains(units, u) {
			return true
		}
	}
	return false
}

// ParseUnit converts user or model supplied text into a Unit, accepting common aliases.
func ParseUnit(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := unitAliases[key]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}
