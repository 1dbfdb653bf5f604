// Package reporting renders a completed review run into its output
// artifacts: a Markdown health report, spreadsheet rows for the sheet
// collaborator, and the notification message. Rendering is
// presentation-only — it consumes finished results and computes
// nothing.
package reporting

import (
	"fmt"
	"strings"

	"github.com/aristath/portfolio-health/internal/modules/review"
)

// RenderMarkdown builds the portfolio health report for one run.
// Layout: holdings table, watchlist table, alert section, data-gap
// section, scoring notes footer.
func RenderMarkdown(run review.Run, outcomes []review.TickerOutcome, alerts []review.AlertEvent, recs []review.Recommendation) string {
	var b strings.Builder

	actions := actionByTicker(recs)

	b.WriteString("# Portfolio Health Report\n\n")
	b.WriteString(fmt.Sprintf("**Run**: %s  \n", run.ID))
	b.WriteString(fmt.Sprintf("**Generated**: %s  \n", run.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Tickers**: %d (%d errored) | **Alerts**: %d | **Avg completeness**: %.0f%%\n\n",
		run.Tickers, run.Errored, run.Alerts, run.AvgComplete*100))
	b.WriteString("---\n\n")

	b.WriteString("## Holdings\n\n")
	writeOutcomeTable(&b, outcomes, actions, true)

	if hasWatchlist(outcomes) {
		b.WriteString("\n## Watchlist\n\n")
		writeOutcomeTable(&b, outcomes, actions, false)
	}

	b.WriteString("\n---\n\n## Alerts\n\n")
	writeAlertSection(&b, alerts)

	writeDataGapSection(&b, outcomes)

	b.WriteString("\n---\n\n## Scoring Notes\n\n")
	b.WriteString("- **80+**: quality holding, candidate for adding\n")
	b.WriteString("- **60-80**: healthy, hold\n")
	b.WriteString("- **below 60**: needs close review\n")
	b.WriteString("- Risk tiers: **Low** / **Medium** / **High**; High always recommends reducing\n")
	b.WriteString("- Completeness below 100% means some metrics had no data and scored zero\n")

	return b.String()
}

func writeOutcomeTable(b *strings.Builder, outcomes []review.TickerOutcome, actions map[string]review.Action, held bool) {
	b.WriteString("| Ticker | Name | Market | Shares | Cost | Score | Completeness | Risk | Action |\n")
	b.WriteString("|--------|------|--------|--------|------|-------|--------------|------|--------|\n")

	for _, o := range outcomes {
		if o.Holding.Held() != held {
			continue
		}

		score, completeness, tier := "-", "-", "-"
		if !o.Errored() {
			score = fmt.Sprintf("%.0f", o.Score.TotalScore)
			completeness = fmt.Sprintf("%.0f%%", o.Score.Completeness*100)
			tier = string(o.Risk.Tier)
		}

		action := string(actions[o.Ticker()])
		if action == "" {
			action = "-"
		}

		shares, cost := "-", "-"
		if held {
			shares = fmt.Sprintf("%.0f", o.Holding.Shares)
			cost = fmt.Sprintf("%.2f", o.Holding.CostPrice)
		}

		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			o.Ticker(), o.Holding.Name, o.Holding.Market, shares, cost,
			score, completeness, tier, action)
	}
}

func writeAlertSection(b *strings.Builder, alerts []review.AlertEvent) {
	if len(alerts) == 0 {
		b.WriteString("No alerts this run.\n")
		return
	}

	for _, a := range alerts {
		switch a.Kind {
		case review.AlertScoreBelowThreshold:
			fmt.Fprintf(b, "- **%s**: composite score %.0f below threshold\n", a.Ticker, payloadNumber(a.Payload, "score"))
		case review.AlertRiskHigh:
			fmt.Fprintf(b, "- **%s**: High risk tier (weighted score %.2f)\n", a.Ticker, payloadNumber(a.Payload, "risk_score"))
		case review.AlertNewOpportunity:
			fmt.Fprintf(b, "- **%s**: new opportunity, score %.0f with acceptable risk\n", a.Ticker, payloadNumber(a.Payload, "score"))
		}
	}
}

func writeDataGapSection(b *strings.Builder, outcomes []review.TickerOutcome) {
	var gaps []string
	for _, o := range outcomes {
		if o.Errored() {
			gaps = append(gaps, fmt.Sprintf("- **%s**: %s", o.Ticker(), o.Err.Error()))
			continue
		}
		if o.Score.Completeness < 1 {
			gaps = append(gaps, fmt.Sprintf("- **%s**: %.0f%% of metrics had data", o.Ticker(), o.Score.Completeness*100))
		}
	}
	if len(gaps) == 0 {
		return
	}

	b.WriteString("\n## Data Gaps\n\n")
	for _, g := range gaps {
		b.WriteString(g + "\n")
	}
}

func hasWatchlist(outcomes []review.TickerOutcome) bool {
	for _, o := range outcomes {
		if !o.Holding.Held() {
			return true
		}
	}
	return false
}

func actionByTicker(recs []review.Recommendation) map[string]review.Action {
	actions := make(map[string]review.Action, len(recs))
	for _, r := range recs {
		actions[r.Ticker] = r.Action
	}
	return actions
}

func payloadNumber(payload map[string]interface{}, key string) float64 {
	if v, ok := payload[key].(float64); ok {
		return v
	}
	return 0
}
