package reporting

import (
	"fmt"

	"github.com/aristath/portfolio-health/internal/modules/review"
)

// SheetRows builds the rows handed to the spreadsheet collaborator:
// a timestamp row, a header row, then one row per ticker in run order.
// Transport to the actual sheet is out of scope here.
func SheetRows(run review.Run, outcomes []review.TickerOutcome, recs []review.Recommendation) [][]string {
	actions := actionByTicker(recs)

	rows := [][]string{
		{"Updated", run.StartedAt.Format("2006-01-02 15:04:05"), "", "", "", "", "", "", ""},
		{"Ticker", "Name", "Market", "Shares", "Cost", "Score", "Completeness", "Risk", "Action"},
	}

	for _, o := range outcomes {
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

		rows = append(rows, []string{
			o.Ticker(),
			o.Holding.Name,
			string(o.Holding.Market),
			fmt.Sprintf("%.0f", o.Holding.Shares),
			fmt.Sprintf("%.2f", o.Holding.CostPrice),
			score,
			completeness,
			tier,
			action,
		})
	}

	return rows
}
