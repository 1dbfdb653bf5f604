package risk

import (
	"fmt"
	"math"

	"github.com/aristath/portfolio-health/internal/catalog"
	"github.com/aristath/portfolio-health/internal/domain"
)

// NeutralContribution stands in for factors whose dataset value is
// missing. Unknown risk is not zero risk, so a gap counts as a middling
// contribution instead of a clean bill — the deliberate opposite of the
// scorer's zero-fill policy.
const NeutralContribution = 0.5

// Assessor computes the weighted capital-preservation risk score and
// tier. Deterministic and side-effect free.
type Assessor struct {
	neutral float64
}

// NewAssessor creates an assessor with the neutral missing-value
// contribution
func NewAssessor() *Assessor {
	return &Assessor{neutral: NeutralContribution}
}

// Assess evaluates one ticker's dataset against the risk factor catalog.
// The weighted score stays in [0,1] because weights sum to 1 and every
// contribution is bounded.
func (a *Assessor) Assess(ticker string, dataset domain.FundamentalDataset, cat *catalog.RiskCatalog) (RiskAssessment, error) {
	breakdown := make(map[string]FactorContribution, cat.Size())

	score := 0.0
	for _, def := range cat.All() {
		value, ok := dataset.Value(def.Field)
		if !ok {
			breakdown[def.ID] = FactorContribution{
				Contribution: a.neutral,
				Weight:       def.Weight,
				Missing:      true,
			}
			score += def.Weight * a.neutral
			continue
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return RiskAssessment{}, fmt.Errorf("factor %s: non-finite value for field %s", def.ID, def.Field)
		}

		// Risk bands are authored riskiest-first, so they are walked on
		// the unfavorable axis.
		contribution, _ := catalog.AwardFor(value, def.Direction.Flip(), def.Bands)
		contribution = math.Max(0, math.Min(contribution, 1))

		breakdown[def.ID] = FactorContribution{
			Contribution: contribution,
			Weight:       def.Weight,
		}
		score += def.Weight * contribution
	}

	return RiskAssessment{
		Ticker:    ticker,
		RiskScore: score,
		Tier:      TierFor(score),
		Breakdown: breakdown,
	}, nil
}
