package model

// TipImpact rates how much a suggestion is expected to help.
type TipImpact string

// Tip impact levels.
const (
	TipImpactLow    TipImpact = "low"
	TipImpactMedium TipImpact = "medium"
	TipImpactHigh   TipImpact = "high"
)

// EcoTip is a suggestion for lowering a footprint.
type EcoTip struct {
	Title    string
	Impact   TipImpact
	Category Category
}
