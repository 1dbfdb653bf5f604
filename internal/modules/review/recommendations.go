package review

import (
	"github.com/aristath/portfolio-health/internal/modules/risk"
)

// Action is the per-ticker recommendation derived from an outcome
type Action string

const (
	ActionReduce   Action = "reduce"    // high risk tier, trim the position
	ActionAdd      Action = "add"       // strong score, acceptable risk
	ActionHold     Action = "hold"      // healthy, nothing to do
	ActionReview   Action = "review"    // weak score, watch closely
	ActionWatchBuy Action = "watch-buy" // watchlist candidate worth buying
	ActionPending  Action = "pending"   // could not be evaluated
)

// DeriveAction maps one outcome to its recommendation. Risk outranks
// score: a High tier always recommends reducing, whatever the score.
// Watchlist candidates flagged as new opportunities get watch-buy.
func DeriveAction(outcome TickerOutcome, alerts []AlertEvent) Action {
	if outcome.Errored() {
		return ActionPending
	}

	if !outcome.Holding.Held() {
		for _, a := range alerts {
			if a.Ticker == outcome.Ticker() && a.Kind == AlertNewOpportunity {
				return ActionWatchBuy
			}
		}
		return ActionReview
	}

	switch {
	case outcome.Risk.Tier == risk.TierHigh:
		return ActionReduce
	case outcome.Score.TotalScore >= opportunityScore:
		return ActionAdd
	case outcome.Score.TotalScore >= scoreAlertBelow:
		return ActionHold
	default:
		return ActionReview
	}
}
