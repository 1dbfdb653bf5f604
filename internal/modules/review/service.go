package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/events"
	"github.com/aristath/portfolio-health/internal/modules/fundamentals"
)

// PortfolioSource supplies the holdings and watchlist for a run
type PortfolioSource interface {
	Load() ([]domain.HoldingContext, error)
}

// DataSource fetches one ticker's raw statement data. The service picks
// a source per market and owns the snapshot fallback.
type DataSource interface {
	FetchStatements(ctx context.Context, ticker string) (fundamentals.Statements, error)
}

// Reporter renders and stores the run's report artifacts
type Reporter interface {
	Write(run Run, outcomes []TickerOutcome, alerts []AlertEvent, recs []Recommendation) error
}

// Notifier pushes the run summary to the notification channel
type Notifier interface {
	NotifyReview(ctx context.Context, message string) error
}

// MessageFormatter builds the notification text for a completed run
type MessageFormatter func(run Run, outcomes []TickerOutcome, alerts []AlertEvent) string

// ServiceConfig wires the review service
type ServiceConfig struct {
	Log        zerolog.Logger
	Portfolio  PortfolioSource
	Domestic   DataSource
	Foreign    DataSource
	Snapshots  *fundamentals.SnapshotStore
	Builder    *fundamentals.Builder
	Aggregator *Aggregator
	Repo       *Repository
	RecRepo    *RecommendationRepository
	Reporter   Reporter
	Notifier   Notifier
	Formatter  MessageFormatter
	Events     *events.Manager
	// HistoryQuarters bounds how many snapshot quarters feed series
	// derivation. Zero selects the default of 20 (five years).
	HistoryQuarters int
}

// Service orchestrates one review run end to end: fetch, build, batch
// evaluation, persistence, recommendations, reporting, notification.
// All I/O happens here, strictly outside the scoring core.
type Service struct {
	log             zerolog.Logger
	portfolio       PortfolioSource
	domestic        DataSource
	foreign         DataSource
	snapshots       *fundamentals.SnapshotStore
	builder         *fundamentals.Builder
	aggregator      *Aggregator
	repo            *Repository
	recRepo         *RecommendationRepository
	reporter        Reporter
	notifier        Notifier
	formatter       MessageFormatter
	events          *events.Manager
	historyQuarters int
}

// NewService creates a review service
func NewService(cfg ServiceConfig) *Service {
	history := cfg.HistoryQuarters
	if history <= 0 {
		history = 20
	}
	return &Service{
		log:             cfg.Log.With().Str("service", "review").Logger(),
		portfolio:       cfg.Portfolio,
		domestic:        cfg.Domestic,
		foreign:         cfg.Foreign,
		snapshots:       cfg.Snapshots,
		builder:         cfg.Builder,
		aggregator:      cfg.Aggregator,
		repo:            cfg.Repo,
		recRepo:         cfg.RecRepo,
		reporter:        cfg.Reporter,
		notifier:        cfg.Notifier,
		formatter:       cfg.Formatter,
		events:          cfg.Events,
		historyQuarters: history,
	}
}

// RunReview executes one full review run
func (s *Service) RunReview(ctx context.Context) (*Run, error) {
	started := time.Now()

	holdings, err := s.portfolio.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	runID := uuid.New().String()
	s.events.Emit(events.ReviewStarted, "review", map[string]interface{}{
		"run_id":  runID,
		"tickers": len(holdings),
	})

	datasets := s.buildDatasets(ctx, holdings)

	outcomes, alerts := s.aggregator.Run(holdings, datasets)

	run := buildRunMetadata(runID, started, outcomes, alerts)
	if err := s.repo.SaveRun(run, outcomes, alerts); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	recs := s.recordRecommendations(run, outcomes, alerts)

	if s.reporter != nil {
		if err := s.reporter.Write(run, outcomes, alerts, recs); err != nil {
			s.log.Error().Err(err).Msg("Report generation failed")
		}
	}

	s.emitRunEvents(run, outcomes, alerts)
	s.notify(ctx, run, outcomes, alerts)

	s.log.Info().
		Str("run_id", run.ID).
		Int("tickers", run.Tickers).
		Int("errored", run.Errored).
		Int("alerts", run.Alerts).
		Dur("duration", run.Duration).
		Msg("Review run completed")

	return &run, nil
}

// buildDatasets fetches and derives one dataset per ticker. A failed
// fetch falls back to the latest stored snapshot; tickers with neither
// simply get no dataset and surface as errored outcomes downstream.
func (s *Service) buildDatasets(ctx context.Context, holdings []domain.HoldingContext) map[string]domain.FundamentalDataset {
	datasets := make(map[string]domain.FundamentalDataset, len(holdings))

	for _, holding := range holdings {
		dataset, ok := s.buildDataset(ctx, holding)
		if ok {
			datasets[holding.Ticker] = dataset
		}
	}

	return datasets
}

func (s *Service) buildDataset(ctx context.Context, holding domain.HoldingContext) (domain.FundamentalDataset, bool) {
	source := s.sourceFor(holding.Market)

	var ratios map[domain.Field]float64

	stmts, err := source.FetchStatements(ctx, holding.Ticker)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("ticker", holding.Ticker).
			Str("market", string(holding.Market)).
			Msg("Fetch failed, falling back to snapshot")

		ratios, err = s.snapshots.LatestRatios(holding.Ticker)
		if err != nil || ratios == nil {
			return domain.FundamentalDataset{}, false
		}
	} else {
		ratios = stmts.Ratios
		if err := s.snapshots.Save(stmts); err != nil {
			s.log.Error().Err(err).Str("ticker", holding.Ticker).Msg("Snapshot save failed")
		}
	}

	history, err := s.snapshots.History(holding.Ticker, s.historyQuarters)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", holding.Ticker).Msg("Snapshot history unavailable")
	}

	return s.builder.Build(holding.Ticker, ratios, history), true
}

func (s *Service) sourceFor(market domain.Market) DataSource {
	if market == domain.MarketDomestic {
		return s.domestic
	}
	return s.foreign
}

func (s *Service) recordRecommendations(run Run, outcomes []TickerOutcome, alerts []AlertEvent) []Recommendation {
	recs := make([]Recommendation, 0, len(outcomes))

	for _, o := range outcomes {
		action := DeriveAction(o, alerts)
		rec := Recommendation{
			RunID:  run.ID,
			Ticker: o.Ticker(),
			Name:   o.Holding.Name,
			Action: action,
			Reason: reasonFor(o, action),
		}
		if !o.Errored() {
			score := o.Score.TotalScore
			tier := string(o.Risk.Tier)
			rec.Score = &score
			rec.Tier = &tier
		}

		id, err := s.recRepo.Create(rec)
		if err != nil {
			s.log.Error().Err(err).Str("ticker", rec.Ticker).Msg("Failed to store recommendation")
			continue
		}
		rec.UUID = id
		recs = append(recs, rec)
	}

	return recs
}

func reasonFor(o TickerOutcome, action Action) string {
	switch action {
	case ActionPending:
		return "could not be evaluated this run"
	case ActionReduce:
		return fmt.Sprintf("risk tier %s (score %.2f)", o.Risk.Tier, o.Risk.RiskScore)
	case ActionAdd, ActionWatchBuy:
		return fmt.Sprintf("composite score %.0f with %s risk", o.Score.TotalScore, o.Risk.Tier)
	case ActionHold:
		return fmt.Sprintf("composite score %.0f, healthy", o.Score.TotalScore)
	default:
		return fmt.Sprintf("composite score %.0f below watch threshold", o.Score.TotalScore)
	}
}

func (s *Service) emitRunEvents(run Run, outcomes []TickerOutcome, alerts []AlertEvent) {
	for _, o := range outcomes {
		if o.Errored() {
			s.events.Emit(events.TickerErrored, "review", map[string]interface{}{
				"run_id": run.ID,
				"ticker": o.Ticker(),
				"error":  o.Err.Error(),
			})
		}
	}

	for _, a := range alerts {
		s.events.Emit(events.AlertRaised, "review", map[string]interface{}{
			"run_id":  run.ID,
			"ticker":  a.Ticker,
			"kind":    string(a.Kind),
			"payload": a.Payload,
		})
	}

	s.events.Emit(events.ReviewCompleted, "review", map[string]interface{}{
		"run_id":  run.ID,
		"tickers": run.Tickers,
		"errored": run.Errored,
		"alerts":  run.Alerts,
	})
}

func (s *Service) notify(ctx context.Context, run Run, outcomes []TickerOutcome, alerts []AlertEvent) {
	if s.notifier == nil || s.formatter == nil {
		s.log.Debug().Msg("Notifier not configured, skipping")
		return
	}

	message := s.formatter(run, outcomes, alerts)
	if err := s.notifier.NotifyReview(ctx, message); err != nil {
		s.log.Error().Err(err).Msg("Notification failed")
	}
}

func buildRunMetadata(runID string, started time.Time, outcomes []TickerOutcome, alerts []AlertEvent) Run {
	errored := 0
	completeness := 0.0
	scored := 0
	for _, o := range outcomes {
		if o.Errored() {
			errored++
			continue
		}
		completeness += o.Score.Completeness
		scored++
	}

	avg := 0.0
	if scored > 0 {
		avg = completeness / float64(scored)
	}

	return Run{
		ID:          runID,
		StartedAt:   started,
		Duration:    time.Since(started),
		Tickers:     len(outcomes),
		Errored:     errored,
		Alerts:      len(alerts),
		AvgComplete: avg,
	}
}
