package review

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/modules/risk"
	"github.com/aristath/portfolio-health/internal/modules/scoring"
)

// Repository persists review runs, per-ticker results, and alerts in
// the main results database. Breakdowns are stored as JSON documents:
// they are read back whole, never queried by column.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a review results repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "review").Logger(),
	}
}

// SaveRun stores one completed run with all its outcomes and alerts in
// a single transaction.
func (r *Repository) SaveRun(run Run, outcomes []TickerOutcome, alerts []AlertEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO review_runs (id, started_at, duration_ms, tickers, errored, alerts, avg_completeness)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.Duration.Milliseconds(), run.Tickers, run.Errored, run.Alerts, run.AvgComplete)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, o := range outcomes {
		if err := r.insertOutcome(tx, run.ID, o); err != nil {
			return err
		}
	}

	now := time.Now()
	for _, a := range alerts {
		payload, err := json.Marshal(a.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal alert payload: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO alerts (id, run_id, ticker, kind, payload, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), run.ID, a.Ticker, string(a.Kind), string(payload), now)
		if err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	r.log.Info().
		Str("run_id", run.ID).
		Int("tickers", run.Tickers).
		Int("alerts", run.Alerts).
		Msg("Review run persisted")

	return nil
}

func (r *Repository) insertOutcome(tx *sql.Tx, runID string, o TickerOutcome) error {
	if o.Errored() {
		_, err := tx.Exec(`
			INSERT INTO score_results (run_id, ticker, errored, error_text)
			VALUES (?, ?, 1, ?)
		`, runID, o.Ticker(), o.Err.Error())
		if err != nil {
			return fmt.Errorf("failed to insert errored result: %w", err)
		}
		return nil
	}

	scoreBreakdown, err := json.Marshal(o.Score.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO score_results (run_id, ticker, total_score, completeness, breakdown)
		VALUES (?, ?, ?, ?, ?)
	`, runID, o.Ticker(), o.Score.TotalScore, o.Score.Completeness, string(scoreBreakdown))
	if err != nil {
		return fmt.Errorf("failed to insert score result: %w", err)
	}

	riskBreakdown, err := json.Marshal(o.Risk.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal risk breakdown: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO risk_assessments (run_id, ticker, risk_score, tier, breakdown)
		VALUES (?, ?, ?, ?, ?)
	`, runID, o.Ticker(), o.Risk.RiskScore, string(o.Risk.Tier), string(riskBreakdown))
	if err != nil {
		return fmt.Errorf("failed to insert risk assessment: %w", err)
	}

	return nil
}

// StoredResult is one persisted per-ticker result row, rebuilt for the
// API.
type StoredResult struct {
	Ticker    string               `json:"ticker"`
	Score     *scoring.ScoreResult `json:"score,omitempty"`
	Risk      *risk.RiskAssessment `json:"risk,omitempty"`
	Errored   bool                 `json:"errored,omitempty"`
	ErrorText string               `json:"error,omitempty"`
}

// LatestRun returns the newest run's metadata, or nil when no run has
// been recorded yet.
func (r *Repository) LatestRun() (*Run, error) {
	var run Run
	var durationMs int64
	err := r.db.QueryRow(`
		SELECT id, started_at, duration_ms, tickers, errored, alerts, avg_completeness
		FROM review_runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.StartedAt, &durationMs, &run.Tickers, &run.Errored, &run.Alerts, &run.AvgComplete)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}

// ResultsForRun returns every ticker's stored result for a run
func (r *Repository) ResultsForRun(runID string) ([]StoredResult, error) {
	rows, err := r.db.Query(`
		SELECT s.ticker, s.total_score, s.completeness, s.breakdown, s.errored, s.error_text,
			   a.risk_score, a.tier, a.breakdown
		FROM score_results s
		LEFT JOIN risk_assessments a ON a.run_id = s.run_id AND a.ticker = s.ticker
		WHERE s.run_id = ?
		ORDER BY s.ticker
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		result, err := scanStoredResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// HistoryForTicker returns a ticker's results across recent runs,
// newest first.
func (r *Repository) HistoryForTicker(ticker string, limit int) ([]StoredResult, error) {
	rows, err := r.db.Query(`
		SELECT s.ticker, s.total_score, s.completeness, s.breakdown, s.errored, s.error_text,
			   a.risk_score, a.tier, a.breakdown
		FROM score_results s
		JOIN review_runs r ON r.id = s.run_id
		LEFT JOIN risk_assessments a ON a.run_id = s.run_id AND a.ticker = s.ticker
		WHERE s.ticker = ?
		ORDER BY r.started_at DESC
		LIMIT ?
	`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker history: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		result, err := scanStoredResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func scanStoredResult(rows *sql.Rows) (StoredResult, error) {
	var result StoredResult
	var totalScore, completeness, riskScore sql.NullFloat64
	var scoreBreakdown, errorText, tier, riskBreakdown sql.NullString
	var errored int

	err := rows.Scan(&result.Ticker, &totalScore, &completeness, &scoreBreakdown, &errored, &errorText,
		&riskScore, &tier, &riskBreakdown)
	if err != nil {
		return result, fmt.Errorf("failed to scan result: %w", err)
	}

	if errored != 0 {
		result.Errored = true
		result.ErrorText = errorText.String
		return result, nil
	}

	score := &scoring.ScoreResult{
		Ticker:       result.Ticker,
		TotalScore:   totalScore.Float64,
		Completeness: completeness.Float64,
	}
	if scoreBreakdown.Valid {
		if err := json.Unmarshal([]byte(scoreBreakdown.String), &score.Breakdown); err != nil {
			return result, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
		}
	}
	result.Score = score

	if riskScore.Valid {
		assessment := &risk.RiskAssessment{
			Ticker:    result.Ticker,
			RiskScore: riskScore.Float64,
			Tier:      risk.Tier(tier.String),
		}
		if riskBreakdown.Valid {
			if err := json.Unmarshal([]byte(riskBreakdown.String), &assessment.Breakdown); err != nil {
				return result, fmt.Errorf("failed to unmarshal risk breakdown: %w", err)
			}
		}
		result.Risk = assessment
	}

	return result, nil
}

// StoredAlert is one persisted alert row
type StoredAlert struct {
	ID        string                 `json:"id"`
	RunID     string                 `json:"run_id"`
	Ticker    string                 `json:"ticker"`
	Kind      AlertKind              `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// RecentAlerts returns the newest alerts across runs
func (r *Repository) RecentAlerts(limit int) ([]StoredAlert, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, ticker, kind, payload, created_at
		FROM alerts
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []StoredAlert
	for rows.Next() {
		var a StoredAlert
		var kind, payload string

		if err := rows.Scan(&a.ID, &a.RunID, &a.Ticker, &kind, &payload, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		a.Kind = AlertKind(kind)
		if err := json.Unmarshal([]byte(payload), &a.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alert payload: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
