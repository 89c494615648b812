// Package footprint implements the carbon footprint ledger: pricing activities
// against an emission factor table, aggregating them per category and
// classifying the total into an impact tier.
package footprint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/model"
)

// FactorKey identifies one emission factor. An empty Variant is the default
// factor for the category and unit.
type FactorKey struct {
	Category model.Category
	Unit     model.Unit
	Variant  string
}

func (k FactorKey) String() string {
	if k.Variant == "" {
		return fmt.Sprintf("%s/%s", k.Category, k.Unit)
	}
	return fmt.Sprintf("%s/%s/%s", k.Category, k.Unit, k.Variant)
}

// Factor is a configured kg CO2 per unit multiplier.
type Factor struct {
	Key       FactorKey
	KgPerUnit float64
}

// FactorTable is an immutable, validated mapping of FactorKey to kg CO2 per unit.
type FactorTable struct {
	factors map[FactorKey]float64
}

// NewFactorTable validates factors and builds a table. Every category must
// end up with at least one factor, every unit must be valid for its category
// and no key may appear twice.
func NewFactorTable(factors []Factor) (*FactorTable, error) {
	table := &FactorTable{factors: make(map[FactorKey]float64, len(factors))}
	covered := make(map[model.Category]bool, len(model.Categories))

	for _, f := range factors {
		key := normalizeKey(f.Key)
		if !key.Category.IsValid() {
			return nil, fmt.Errorf("%w: %s: unknown category", ErrInvalidFactorTable, key)
		}
		if !key.Category.Accepts(key.Unit) {
			return nil, fmt.Errorf("%w: %s: unit not valid for %s", ErrInvalidFactorTable, key, key.Category)
		}
		if math.IsNaN(f.KgPerUnit) || math.IsInf(f.KgPerUnit, 0) || f.KgPerUnit < 0 {
			return nil, fmt.Errorf("%w: %s: factor %v must be a finite non-negative number", ErrInvalidFactorTable, key, f.KgPerUnit)
		}
		if _, dup := table.factors[key]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate factor", ErrInvalidFactorTable, key)
		}
		table.factors[key] = f.KgPerUnit
		covered[key.Category] = true
	}

	var missing []string
	for _, c := range model.Categories {
		if !covered[c] {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: no factors for %s", ErrInvalidFactorTable, strings.Join(missing, ", "))
	}

	return table, nil
}

// Lookup returns the factor for key. Variants never fall back to the default.
func (t *FactorTable) Lookup(key FactorKey) (float64, bool) {
	f, ok := t.factors[normalizeKey(key)]
	return f, ok
}

// Factors returns all factors sorted by category order, unit and variant.
func (t *FactorTable) Factors() []Factor {
	out := make([]Factor, 0, len(t.factors))
	for k, v := range t.factors {
		out = append(out, Factor{Key: k, KgPerUnit: v})
	}

	order := make(map[model.Category]int, len(model.Categories))
	for i, c := range model.Categories {
		order[c] = i
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Category != b.Category {
			return order[a.Category] < order[b.Category]
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.Variant < b.Variant
	})
	return out
}

// Variants returns the configured variants for a category and unit, excluding the default.
func (t *FactorTable) Variants(category model.Category, unit model.Unit) []string {
	var out []string
	for k := range t.factors {
		if k.Category == category && k.Unit == unit && k.Variant != "" {
			out = append(out, k.Variant)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of configured factors.
func (t *FactorTable) Len() int {
	return len(t.factors)
}

func normalizeKey(k FactorKey) FactorKey {
	k.Variant = strings.ToLower(strings.TrimSpace(k.Variant))
	return k
}
