package review

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/catalog"
	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/modules/risk"
	"github.com/aristath/portfolio-health/internal/modules/scoring"
)

func testAggregator(t *testing.T) *Aggregator {
	t.Helper()

	metrics, err := catalog.DefaultMetricCatalog()
	if err != nil {
		t.Fatalf("failed to build metric catalog: %v", err)
	}
	factors, err := catalog.DefaultRiskCatalog()
	if err != nil {
		t.Fatalf("failed to build risk catalog: %v", err)
	}

	return NewAggregator(
		scoring.NewScorer(scoring.MissingZeroFill),
		risk.NewAssessor(),
		metrics,
		factors,
		zerolog.Nop(),
	)
}

// strongValues hits the top band of every default metric and the safest
// band of every risk factor.
func strongValues() map[domain.Field]float64 {
	return map[domain.Field]float64{
		domain.FieldReturnOnEquity:          0.25,
		domain.FieldGrossMargin:             0.45,
		domain.FieldOperatingMargin:         0.30,
		domain.FieldRevenueGrowth3Yr:        0.20,
		domain.FieldEPSGrowth3Yr:            0.20,
		domain.FieldDebtToEquity:            0.20,
		domain.FieldCurrentRatio:            2.5,
		domain.FieldInterestCoverage:        12,
		domain.FieldCustomerConcentration:   0.05,
		domain.FieldGeographicConcentration: 0.20,
		domain.FieldFCFToNetIncome:          1.1,
		domain.FieldMarginVolatility:        0.02,
		domain.FieldPEPercentile:            0.10,
		domain.FieldPriceToBook:             0.8,
		domain.FieldAssetTurnover:           1.2,
		domain.FieldDividendPayoutRatio:     0.6,
	}
}

func TestRunIsolatesPerTickerFailures(t *testing.T) {
	agg := testAggregator(t)

	holdings := []domain.HoldingContext{
		{Ticker: "2330", Name: "TSMC", Shares: 1000, CostPrice: 500, Market: domain.MarketDomestic},
		{Ticker: "BAD", Name: "Broken", Shares: 10, CostPrice: 1, Market: domain.MarketForeign},
		{Ticker: "NONE", Name: "No Data", Shares: 10, CostPrice: 1, Market: domain.MarketForeign},
	}

	badValues := strongValues()
	badValues[domain.FieldReturnOnEquity] = math.NaN()

	datasets := map[string]domain.FundamentalDataset{
		"2330": domain.NewFundamentalDataset(strongValues()),
		"BAD":  domain.NewFundamentalDataset(badValues),
	}

	outcomes, alerts := agg.Run(holdings, datasets)

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}

	// Output order follows holding order regardless of goroutine timing.
	for i, want := range []string{"2330", "BAD", "NONE"} {
		if outcomes[i].Ticker() != want {
			t.Errorf("outcome %d ticker = %s, want %s", i, outcomes[i].Ticker(), want)
		}
	}

	if outcomes[0].Errored() {
		t.Errorf("healthy ticker errored: %v", outcomes[0].Err)
	}
	if outcomes[0].Score.TotalScore != 100 {
		t.Errorf("TotalScore = %v, want 100", outcomes[0].Score.TotalScore)
	}
	if !outcomes[1].Errored() {
		t.Error("NaN dataset did not produce an errored outcome")
	}
	if !outcomes[2].Errored() {
		t.Error("missing dataset did not produce an errored outcome")
	}

	// Alert derivation still ran over the surviving outcomes.
	for _, a := range alerts {
		if a.Ticker == "BAD" || a.Ticker == "NONE" {
			t.Errorf("errored ticker %s raised alert %s", a.Ticker, a.Kind)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	agg := testAggregator(t)

	holdings := []domain.HoldingContext{
		{Ticker: "2330", Market: domain.MarketDomestic},
		{Ticker: "AAPL", Market: domain.MarketForeign, Watch: true},
	}
	datasets := map[string]domain.FundamentalDataset{
		"2330": domain.NewFundamentalDataset(strongValues()),
		"AAPL": domain.NewFundamentalDataset(strongValues()),
	}

	first, firstAlerts := agg.Run(holdings, datasets)
	second, secondAlerts := agg.Run(holdings, datasets)

	for i := range first {
		if first[i].Score.TotalScore != second[i].Score.TotalScore {
			t.Errorf("ticker %s: scores differ between runs", first[i].Ticker())
		}
		if first[i].Risk.RiskScore != second[i].Risk.RiskScore {
			t.Errorf("ticker %s: risk scores differ between runs", first[i].Ticker())
		}
	}
	if len(firstAlerts) != len(secondAlerts) {
		t.Errorf("alert counts differ: %d vs %d", len(firstAlerts), len(secondAlerts))
	}
}

func scoredOutcome(ticker string, score float64, tier risk.Tier, watch bool) TickerOutcome {
	return TickerOutcome{
		Holding: domain.HoldingContext{Ticker: ticker, Watch: watch},
		Score:   &scoring.ScoreResult{Ticker: ticker, TotalScore: score, Completeness: 1},
		Risk:    &risk.RiskAssessment{Ticker: ticker, Tier: tier},
	}
}

func TestDeriveAlerts(t *testing.T) {
	tests := []struct {
		name    string
		outcome TickerOutcome
		want    []AlertKind
	}{
		{
			name:    "healthy holding raises nothing",
			outcome: scoredOutcome("2330", 85, risk.TierLow, false),
			want:    nil,
		},
		{
			name:    "low score raises score alert",
			outcome: scoredOutcome("2002", 45, risk.TierLow, false),
			want:    []AlertKind{AlertScoreBelowThreshold},
		},
		{
			name:    "high tier raises risk alert",
			outcome: scoredOutcome("1101", 70, risk.TierHigh, false),
			want:    []AlertKind{AlertRiskHigh},
		},
		{
			name:    "non-held strong candidate raises exactly one opportunity",
			outcome: scoredOutcome("AAPL", 85, risk.TierMedium, true),
			want:    []AlertKind{AlertNewOpportunity},
		},
		{
			name:    "held strong ticker raises no opportunity",
			outcome: scoredOutcome("MSFT", 85, risk.TierMedium, false),
			want:    nil,
		},
		{
			name:    "high-risk candidate is not an opportunity",
			outcome: scoredOutcome("NVDA", 90, risk.TierHigh, true),
			want:    []AlertKind{AlertRiskHigh},
		},
		{
			name:    "low score and high risk both raise",
			outcome: scoredOutcome("2618", 40, risk.TierHigh, false),
			want:    []AlertKind{AlertScoreBelowThreshold, AlertRiskHigh},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := deriveAlerts([]TickerOutcome{tt.outcome})

			if len(alerts) != len(tt.want) {
				t.Fatalf("got %d alerts, want %d", len(alerts), len(tt.want))
			}
			for i, kind := range tt.want {
				if alerts[i].Kind != kind {
					t.Errorf("alert %d kind = %s, want %s", i, alerts[i].Kind, kind)
				}
				if alerts[i].Ticker != tt.outcome.Ticker() {
					t.Errorf("alert %d ticker = %s, want %s", i, alerts[i].Ticker, tt.outcome.Ticker())
				}
			}
		})
	}
}

func TestDeriveAlertsScoreBoundary(t *testing.T) {
	at60 := deriveAlerts([]TickerOutcome{scoredOutcome("X", 60, risk.TierLow, false)})
	if len(at60) != 0 {
		t.Errorf("score exactly 60 raised %d alerts, want 0", len(at60))
	}

	below := deriveAlerts([]TickerOutcome{scoredOutcome("X", 59.999999, risk.TierLow, false)})
	if len(below) != 1 || below[0].Kind != AlertScoreBelowThreshold {
		t.Errorf("score just below 60 did not raise the score alert")
	}
}
