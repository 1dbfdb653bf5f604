package risk

// Tier is the categorical risk classification
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Tier cut points. Boundaries belong to the tier above: exactly 0.34 is
// Medium and exactly 0.67 is High.
const (
	mediumCut = 0.34
	highCut   = 0.67
)

// TierFor maps a weighted risk score in [0,1] to its tier. A pure
// function of the score — no other state influences classification.
func TierFor(score float64) Tier {
	switch {
	case score >= highCut:
		return TierHigh
	case score >= mediumCut:
		return TierMedium
	default:
		return TierLow
	}
}

// FactorContribution is one breakdown entry: the factor's risk
// contribution in [0,1], its weight, and whether the neutral default
// stood in for a missing value.
type FactorContribution struct {
	Contribution float64 `json:"contribution"`
	Weight       float64 `json:"weight"`
	Missing      bool    `json:"missing,omitempty"`
}

// RiskAssessment is the capital-preservation assessment for one ticker.
// It is a value object: created once per run, never mutated.
type RiskAssessment struct {
	Ticker    string                        `json:"ticker"`
	RiskScore float64                       `json:"riskScore"`
	Tier      Tier                          `json:"tier"`
	Breakdown map[string]FactorContribution `json:"breakdown"`
}
