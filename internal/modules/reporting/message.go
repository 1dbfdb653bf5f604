package reporting

import (
	"fmt"
	"strings"

	"github.com/aristath/portfolio-health/internal/modules/review"
)

// FormatReviewMessage builds the Telegram notification for one run
// (HTML parse mode). One message per run summarizing the alerts.
func FormatReviewMessage(run review.Run, outcomes []review.TickerOutcome, alerts []review.AlertEvent) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Portfolio Health</b> | %s\n\n", run.StartedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Reviewed %d tickers", run.Tickers))
	if run.Errored > 0 {
		b.WriteString(fmt.Sprintf(" (%d could not be scored)", run.Errored))
	}
	b.WriteString(fmt.Sprintf(", avg completeness %.0f%%\n\n", run.AvgComplete*100))

	if len(alerts) == 0 {
		b.WriteString("✅ No alerts this run\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("🔔 <b>%d alert(s):</b>\n", len(alerts)))
	for _, a := range alerts {
		switch a.Kind {
		case review.AlertScoreBelowThreshold:
			b.WriteString(fmt.Sprintf("  🟠 %s score %.0f, below 60\n", a.Ticker, payloadNumber(a.Payload, "score")))
		case review.AlertRiskHigh:
			b.WriteString(fmt.Sprintf("  🔴 %s HIGH risk (%.2f)\n", a.Ticker, payloadNumber(a.Payload, "risk_score")))
		case review.AlertNewOpportunity:
			b.WriteString(fmt.Sprintf("  🟢 %s opportunity, score %.0f\n", a.Ticker, payloadNumber(a.Payload, "score")))
		}
	}

	return b.String()
}
