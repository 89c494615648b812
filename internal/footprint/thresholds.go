package footprint

import (
	"fmt"
	"math"

	"github.com/Veraticus/eco-ledger/internal/model"
)

// Thresholds are the lower bounds of the moderate and high tiers, in kg CO2.
// Bands are half-open: [0, Moderate) is low, [Moderate, High) is moderate and
// [High, +inf) is high. The period the totals cover is up to the caller.
type Thresholds struct {
	Moderate float64
	High     float64
}

// DefaultThresholds are the bands for a daily total.
func DefaultThresholds() Thresholds {
	return Thresholds{Moderate: 5.0, High: 15.0}
}

// Validate checks that the bands are finite, positive and ordered.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.Moderate, t.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: bounds must be finite and positive (moderate=%v, high=%v)", ErrInvalidThresholds, t.Moderate, t.High)
		}
	}
	if t.Moderate > t.High {
		return fmt.Errorf("%w: moderate bound %v exceeds high bound %v", ErrInvalidThresholds, t.Moderate, t.High)
	}
	return nil
}

type band struct {
	tier  model.ImpactTier
	upper float64
}

func (t Thresholds) bands() []band {
	return []band{
		{tier: model.TierLow, upper: t.Moderate},
		{tier: model.TierModerate, upper: t.High},
		{tier: model.TierHigh, upper: math.Inf(1)},
	}
}

// Classify returns the lowest band whose upper bound exceeds total.
func (t Thresholds) Classify(total float64) model.ImpactTier {
	for _, b := range t.bands() {
		if total < b.upper {
			return b.tier
		}
	}
	return model.TierHigh
}
