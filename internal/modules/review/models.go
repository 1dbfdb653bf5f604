package review

import (
	"time"

	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/modules/risk"
	"github.com/aristath/portfolio-health/internal/modules/scoring"
)

// AlertKind classifies a batch-level alert condition
type AlertKind string

const (
	AlertScoreBelowThreshold AlertKind = "score-below-threshold"
	AlertRiskHigh            AlertKind = "risk-high"
	AlertNewOpportunity      AlertKind = "new-opportunity"
)

// AlertEvent is one notification-worthy condition derived once per batch
// run. Created by the aggregator, consumed by the notification
// collaborator, discarded.
type AlertEvent struct {
	Ticker  string                 `json:"ticker"`
	Kind    AlertKind              `json:"kind"`
	Payload map[string]interface{} `json:"payload"`
}

// TickerOutcome is the tagged per-ticker result: either a score and
// assessment pair or an error marker. Exactly one of the two arms is
// set.
type TickerOutcome struct {
	Holding domain.HoldingContext `json:"holding"`
	Score   *scoring.ScoreResult  `json:"score,omitempty"`
	Risk    *risk.RiskAssessment  `json:"risk,omitempty"`
	Err     *PerTickerComputationError
}

// Ticker returns the outcome's ticker
func (o TickerOutcome) Ticker() string {
	return o.Holding.Ticker
}

// Errored reports whether the ticker could not be evaluated
func (o TickerOutcome) Errored() bool {
	return o.Err != nil
}

// Run is one review run's metadata, persisted alongside its outcomes.
type Run struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Tickers     int           `json:"tickers"`
	Errored     int           `json:"errored"`
	Alerts      int           `json:"alerts"`
	AvgComplete float64       `json:"avg_completeness"`
}
