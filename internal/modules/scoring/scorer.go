package scoring

import (
	"fmt"
	"math"

	"github.com/aristath/portfolio-health/internal/catalog"
	"github.com/aristath/portfolio-health/internal/domain"
)

// MissingPolicy decides how absent metric values affect the total score
type MissingPolicy string

const (
	// MissingZeroFill awards 0 points for absent metrics. The ticker is
	// simply penalized and Completeness surfaces the gap.
	MissingZeroFill MissingPolicy = "zero-fill"

	// MissingRedistribute rescales the total by the share of max-points
	// whose metrics had data, so a data gap does not drag the score.
	MissingRedistribute MissingPolicy = "redistribute"
)

// ParseMissingPolicy validates a configured policy name. Empty input
// selects zero-fill.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case MissingZeroFill, MissingRedistribute:
		return MissingPolicy(s), nil
	case "":
		return MissingZeroFill, nil
	default:
		return "", fmt.Errorf("unknown missing-data policy %q", s)
	}
}

// Scorer computes the 0-100 composite quality score. Deterministic and
// side-effect free: identical dataset and catalog always produce an
// identical result.
type Scorer struct {
	policy MissingPolicy
}

// NewScorer creates a scorer with the given missing-data policy
func NewScorer(policy MissingPolicy) *Scorer {
	if policy == "" {
		policy = MissingZeroFill
	}
	return &Scorer{policy: policy}
}

// Score evaluates one ticker's dataset against the metric catalog.
// Metrics whose field is absent award 0 points and appear as missing in
// the breakdown; a non-finite field value is a computation error.
func (s *Scorer) Score(ticker string, dataset domain.FundamentalDataset, cat *catalog.MetricCatalog) (ScoreResult, error) {
	breakdown := make(map[string]MetricPoints, cat.Size())

	total := 0.0
	presentMax := 0.0
	present := 0

	for _, def := range cat.All() {
		value, ok := dataset.Value(def.Field)
		if !ok {
			breakdown[def.ID] = MetricPoints{Missing: true}
			continue
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return ScoreResult{}, fmt.Errorf("metric %s: non-finite value for field %s", def.ID, def.Field)
		}

		award, _ := catalog.AwardFor(value, def.Direction, def.Bands)
		award = math.Max(0, math.Min(award, def.MaxPoints))

		breakdown[def.ID] = MetricPoints{Points: award}
		total += award
		presentMax += def.MaxPoints
		present++
	}

	if s.policy == MissingRedistribute && presentMax > 0 {
		total = total * catalog.TotalMaxPoints / presentMax
	}

	return ScoreResult{
		Ticker:       ticker,
		TotalScore:   total,
		Completeness: float64(present) / float64(cat.Size()),
		Breakdown:    breakdown,
	}, nil
}
