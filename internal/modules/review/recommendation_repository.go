package review

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recommendation is a stored per-ticker action
type Recommendation struct {
	UUID      string    `json:"uuid"`
	RunID     string    `json:"run_id"`
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	Action    Action    `json:"action"`
	Score     *float64  `json:"score,omitempty"`
	Tier      *string   `json:"tier,omitempty"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"` // "open", "acted", "dismissed"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecommendationRepository handles CRUD operations for recommendations
type RecommendationRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *sql.DB, log zerolog.Logger) *RecommendationRepository {
	return &RecommendationRepository{
		db:  db,
		log: log.With().Str("repository", "recommendation").Logger(),
	}
}

// Create stores a new recommendation and returns its uuid
func (r *RecommendationRepository) Create(rec Recommendation) (string, error) {
	newUUID := uuid.New().String()
	now := time.Now()

	var score, tier interface{}
	if rec.Score != nil {
		score = *rec.Score
	}
	if rec.Tier != nil {
		tier = *rec.Tier
	}

	_, err := r.db.Exec(`
		INSERT INTO recommendations
		(uuid, run_id, ticker, name, action, score, tier, reason, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		newUUID,
		rec.RunID,
		rec.Ticker,
		rec.Name,
		string(rec.Action),
		score,
		tier,
		rec.Reason,
		"open",
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return newUUID, nil
}

// OpenForTicker returns a ticker's open recommendations, newest first
func (r *RecommendationRepository) OpenForTicker(ticker string) ([]Recommendation, error) {
	rows, err := r.db.Query(`
		SELECT uuid, run_id, ticker, name, action, score, tier, reason, status, created_at, updated_at
		FROM recommendations
		WHERE ticker = ? AND status = 'open'
		ORDER BY created_at DESC
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

// ForRun returns every recommendation recorded for a run
func (r *RecommendationRepository) ForRun(runID string) ([]Recommendation, error) {
	rows, err := r.db.Query(`
		SELECT uuid, run_id, ticker, name, action, score, tier, reason, status, created_at, updated_at
		FROM recommendations
		WHERE run_id = ?
		ORDER BY ticker
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

// UpdateStatus moves a recommendation to a new status
func (r *RecommendationRepository) UpdateStatus(recUUID, status string) error {
	_, err := r.db.Exec(`
		UPDATE recommendations
		SET status = ?, updated_at = ?
		WHERE uuid = ?
	`, status, time.Now(), recUUID)
	if err != nil {
		return fmt.Errorf("failed to update recommendation status: %w", err)
	}
	return nil
}

func scanRecommendations(rows *sql.Rows) ([]Recommendation, error) {
	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		var action string
		var score sql.NullFloat64
		var tier sql.NullString

		err := rows.Scan(
			&rec.UUID,
			&rec.RunID,
			&rec.Ticker,
			&rec.Name,
			&action,
			&score,
			&tier,
			&rec.Reason,
			&rec.Status,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		rec.Action = Action(action)
		if score.Valid {
			rec.Score = &score.Float64
		}
		if tier.Valid {
			rec.Tier = &tier.String
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
