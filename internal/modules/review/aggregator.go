// Package review runs the scoring engine over a whole portfolio: it
// fans the scorer and risk assessor out across every holding, isolates
// per-ticker failures, and derives batch-level alerts once all outcomes
// are in.
package review

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/catalog"
	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/modules/risk"
	"github.com/aristath/portfolio-health/internal/modules/scoring"
)

// Alert thresholds on the 0-100 composite score.
const (
	scoreAlertBelow  = 60.0
	opportunityScore = 80.0
)

// Aggregator evaluates every holding independently and derives alerts
// from the completed outcome set. It holds no mutable state between
// runs.
type Aggregator struct {
	scorer   *scoring.Scorer
	assessor *risk.Assessor
	metrics  *catalog.MetricCatalog
	factors  *catalog.RiskCatalog
	log      zerolog.Logger
}

// NewAggregator creates a batch aggregator over validated catalogs
func NewAggregator(
	scorer *scoring.Scorer,
	assessor *risk.Assessor,
	metrics *catalog.MetricCatalog,
	factors *catalog.RiskCatalog,
	log zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		scorer:   scorer,
		assessor: assessor,
		metrics:  metrics,
		factors:  factors,
		log:      log.With().Str("component", "aggregator").Logger(),
	}
}

// Run scores and assesses every holding. Evaluations are independent
// computations over immutable inputs, so each ticker runs in its own
// goroutine writing to its own slice index. One bad ticker never aborts
// the batch: it becomes an errored outcome. Alert derivation waits for
// the full outcome set before running.
func (a *Aggregator) Run(holdings []domain.HoldingContext, datasets map[string]domain.FundamentalDataset) ([]TickerOutcome, []AlertEvent) {
	outcomes := make([]TickerOutcome, len(holdings))

	var wg sync.WaitGroup
	for i, holding := range holdings {
		wg.Add(1)
		go func(i int, holding domain.HoldingContext) {
			defer wg.Done()
			outcomes[i] = a.evaluate(holding, datasets)
		}(i, holding)
	}
	wg.Wait() // barrier: alerts are computed over the whole portfolio

	for _, o := range outcomes {
		if o.Errored() {
			a.log.Warn().
				Str("ticker", o.Ticker()).
				Err(o.Err).
				Msg("Ticker evaluation failed, marked errored")
		}
	}

	alerts := deriveAlerts(outcomes)
	a.log.Info().
		Int("tickers", len(outcomes)).
		Int("alerts", len(alerts)).
		Msg("Batch run completed")

	return outcomes, alerts
}

func (a *Aggregator) evaluate(holding domain.HoldingContext, datasets map[string]domain.FundamentalDataset) TickerOutcome {
	outcome := TickerOutcome{Holding: holding}

	dataset, ok := datasets[holding.Ticker]
	if !ok {
		outcome.Err = &PerTickerComputationError{
			Ticker: holding.Ticker,
			Err:    fmt.Errorf("no dataset available"),
		}
		return outcome
	}

	score, err := a.scorer.Score(holding.Ticker, dataset, a.metrics)
	if err != nil {
		outcome.Err = &PerTickerComputationError{Ticker: holding.Ticker, Err: err}
		return outcome
	}

	assessment, err := a.assessor.Assess(holding.Ticker, dataset, a.factors)
	if err != nil {
		outcome.Err = &PerTickerComputationError{Ticker: holding.Ticker, Err: err}
		return outcome
	}

	outcome.Score = &score
	outcome.Risk = &assessment
	return outcome
}

// deriveAlerts is a pure pass over the completed outcome set. Errored
// outcomes raise no alerts; they are surfaced separately.
func deriveAlerts(outcomes []TickerOutcome) []AlertEvent {
	var alerts []AlertEvent

	for _, o := range outcomes {
		if o.Errored() {
			continue
		}

		if o.Score.TotalScore < scoreAlertBelow {
			alerts = append(alerts, AlertEvent{
				Ticker: o.Ticker(),
				Kind:   AlertScoreBelowThreshold,
				Payload: map[string]interface{}{
					"score":        o.Score.TotalScore,
					"threshold":    scoreAlertBelow,
					"completeness": o.Score.Completeness,
				},
			})
		}

		if o.Risk.Tier == risk.TierHigh {
			alerts = append(alerts, AlertEvent{
				Ticker: o.Ticker(),
				Kind:   AlertRiskHigh,
				Payload: map[string]interface{}{
					"risk_score": o.Risk.RiskScore,
					"tier":       string(o.Risk.Tier),
				},
			})
		}

		if o.Score.TotalScore >= opportunityScore && o.Risk.Tier != risk.TierHigh && !o.Holding.Held() {
			alerts = append(alerts, AlertEvent{
				Ticker: o.Ticker(),
				Kind:   AlertNewOpportunity,
				Payload: map[string]interface{}{
					"score": o.Score.TotalScore,
					"tier":  string(o.Risk.Tier),
				},
			})
		}
	}

	return alerts
}
