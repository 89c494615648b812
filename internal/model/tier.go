package model

import (
	"fmt"
	"strings"
)

// ImpactTier is the qualitative classification of a total emission.
type ImpactTier string

// Impact tiers, ordered from lowest to highest.
const (
	TierLow      ImpactTier = "low"
	TierModerate ImpactTier = "moderate"
	TierHigh     ImpactTier = "high"
)

var tierRank = map[ImpactTier]int{
	TierLow:      0,
	TierModerate: 1,
	TierHigh:     2,
}

// Rank returns the position of the tier in the total order, or -1 if unknown.
func (t ImpactTier) Rank() int {
	r, ok := tierRank[t]
	if !ok {
		return -1
	}
	return r
}

// Compare returns -1, 0 or 1 depending on whether t is lower, equal or higher than other.
func (t ImpactTier) Compare(other ImpactTier) int {
	a, b := t.Rank(), other.Rank()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Label is the human readable form of the tier.
func (t ImpactTier) Label() string {
	switch t {
	case TierLow:
		return "Low (sustainable)"
	case TierModerate:
		return "Moderate"
	case TierHigh:
		return "High"
	default:
		return string(t)
	}
}

// ParseImpactTier converts text into an ImpactTier.
func ParseImpactTier(s string) (ImpactTier, error) {
	t := ImpactTier(strings.ToLower(strings.TrimSpace(s)))
	if t.Rank() < 0 {
		return "", fmt.Errorf("unknown impact tier %q", s)
	}
	return t, nil
}
