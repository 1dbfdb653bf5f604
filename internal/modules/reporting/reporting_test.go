package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/modules/review"
	"github.com/aristath/portfolio-health/internal/modules/risk"
	"github.com/aristath/portfolio-health/internal/modules/scoring"
)

func sampleRun() (review.Run, []review.TickerOutcome, []review.AlertEvent, []review.Recommendation) {
	run := review.Run{
		ID:          "run-1",
		StartedAt:   time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Tickers:     3,
		Errored:     1,
		Alerts:      2,
		AvgComplete: 0.9,
	}

	outcomes := []review.TickerOutcome{
		{
			Holding: domain.HoldingContext{Ticker: "2330", Name: "TSMC", Shares: 1000, CostPrice: 520, Market: domain.MarketDomestic},
			Score:   &scoring.ScoreResult{Ticker: "2330", TotalScore: 88, Completeness: 1},
			Risk:    &risk.RiskAssessment{Ticker: "2330", RiskScore: 0.2, Tier: risk.TierLow},
		},
		{
			Holding: domain.HoldingContext{Ticker: "MSFT", Name: "Microsoft", Market: domain.MarketForeign, Watch: true},
			Score:   &scoring.ScoreResult{Ticker: "MSFT", TotalScore: 85, Completeness: 0.8},
			Risk:    &risk.RiskAssessment{Ticker: "MSFT", RiskScore: 0.4, Tier: risk.TierMedium},
		},
		{
			Holding: domain.HoldingContext{Ticker: "BAD", Name: "Broken", Shares: 10, CostPrice: 1, Market: domain.MarketForeign},
			Err:     &review.PerTickerComputationError{Ticker: "BAD", Err: assert.AnError},
		},
	}

	alerts := []review.AlertEvent{
		{Ticker: "MSFT", Kind: review.AlertNewOpportunity, Payload: map[string]interface{}{"score": 85.0, "tier": "Medium"}},
	}

	recs := []review.Recommendation{
		{Ticker: "2330", Action: review.ActionAdd},
		{Ticker: "MSFT", Action: review.ActionWatchBuy},
		{Ticker: "BAD", Action: review.ActionPending},
	}

	return run, outcomes, alerts, recs
}

func TestRenderMarkdown(t *testing.T) {
	run, outcomes, alerts, recs := sampleRun()

	report := RenderMarkdown(run, outcomes, alerts, recs)

	assert.Contains(t, report, "# Portfolio Health Report")
	assert.Contains(t, report, "## Holdings")
	assert.Contains(t, report, "## Watchlist")
	assert.Contains(t, report, "| 2330 | TSMC | domestic | 1000 | 520.00 | 88 | 100% | Low | add |")
	assert.Contains(t, report, "| MSFT | Microsoft | foreign | - | - | 85 | 80% | Medium | watch-buy |")
	assert.Contains(t, report, "new opportunity")
	assert.Contains(t, report, "## Data Gaps")
	// Errored ticker appears with a marker, never silently dropped.
	assert.Contains(t, report, "**BAD**")
}

func TestRenderMarkdownNoAlerts(t *testing.T) {
	run, outcomes, _, recs := sampleRun()

	report := RenderMarkdown(run, outcomes, nil, recs)
	assert.Contains(t, report, "No alerts this run.")
}

func TestSheetRows(t *testing.T) {
	run, outcomes, _, recs := sampleRun()

	rows := SheetRows(run, outcomes, recs)
	require.Len(t, rows, 5) // timestamp + header + 3 tickers

	assert.Equal(t, "Updated", rows[0][0])
	assert.Equal(t, []string{"Ticker", "Name", "Market", "Shares", "Cost", "Score", "Completeness", "Risk", "Action"}, rows[1])
	assert.Equal(t, []string{"2330", "TSMC", "domestic", "1000", "520.00", "88", "100%", "Low", "add"}, rows[2])

	// Errored ticker keeps its row with placeholder cells.
	assert.Equal(t, "BAD", rows[4][0])
	assert.Equal(t, "-", rows[4][5])
}

func TestFormatReviewMessage(t *testing.T) {
	run, outcomes, alerts, _ := sampleRun()

	msg := FormatReviewMessage(run, outcomes, alerts)
	assert.Contains(t, msg, "<b>Portfolio Health</b>")
	assert.Contains(t, msg, "Reviewed 3 tickers")
	assert.Contains(t, msg, "(1 could not be scored)")
	assert.Contains(t, msg, "MSFT opportunity, score 85")

	quiet := FormatReviewMessage(run, outcomes, nil)
	assert.True(t, strings.Contains(quiet, "No alerts"))
}
