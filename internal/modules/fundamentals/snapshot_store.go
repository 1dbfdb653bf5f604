package fundamentals

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/domain"
)

// snapshotSchema holds one row per (ticker, period). Ratios are stored
// as a JSON document so the snapshot survives catalog field additions.
const snapshotSchema = `
CREATE TABLE IF NOT EXISTS fundamental_snapshots (
	ticker       TEXT NOT NULL,
	period       TEXT NOT NULL,
	revenue      REAL NOT NULL,
	eps          REAL NOT NULL,
	gross_margin REAL NOT NULL,
	pe_ratio     REAL,
	ratios       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	PRIMARY KEY (ticker, period)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ticker ON fundamental_snapshots(ticker, period);
`

// SnapshotStore persists per-quarter statement snapshots in its own
// SQLite file, separate from the results database. Read-mostly: one
// write per ticker per quarter, reads on every review run.
type SnapshotStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotStore opens (creating if needed) the snapshot database
func NewSnapshotStore(dbPath string, log zerolog.Logger) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply snapshot schema: %w", err)
	}

	return &SnapshotStore{
		db:  db,
		log: log.With().Str("component", "snapshot_store").Logger(),
	}, nil
}

// Close closes the underlying database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Conn returns the underlying connection, used by the health check
func (s *SnapshotStore) Conn() *sql.DB {
	return s.db
}

// Save upserts one fetch's snapshot. Statements without a reported
// quarter are skipped — point ratios alone are not worth a history row.
func (s *SnapshotStore) Save(stmts Statements) error {
	if stmts.Quarter == nil {
		return nil
	}

	ratiosJSON, err := json.Marshal(stmts.Ratios)
	if err != nil {
		return fmt.Errorf("failed to marshal ratios: %w", err)
	}

	var pe interface{}
	if stmts.Quarter.PERatio != nil {
		pe = *stmts.Quarter.PERatio
	}

	_, err = s.db.Exec(`
		INSERT INTO fundamental_snapshots
		(ticker, period, revenue, eps, gross_margin, pe_ratio, ratios, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, period) DO UPDATE SET
			revenue = excluded.revenue,
			eps = excluded.eps,
			gross_margin = excluded.gross_margin,
			pe_ratio = excluded.pe_ratio,
			ratios = excluded.ratios,
			created_at = excluded.created_at
	`,
		stmts.Ticker,
		stmts.Quarter.Period,
		stmts.Quarter.Revenue,
		stmts.Quarter.EPS,
		stmts.Quarter.GrossMargin,
		pe,
		string(ratiosJSON),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.Debug().
		Str("ticker", stmts.Ticker).
		Str("period", stmts.Quarter.Period).
		Msg("Snapshot saved")

	return nil
}

// History returns up to limit quarters for a ticker, oldest-first, ready
// for series derivation.
func (s *SnapshotStore) History(ticker string, limit int) ([]Quarter, error) {
	rows, err := s.db.Query(`
		SELECT period, revenue, eps, gross_margin, pe_ratio
		FROM (
			SELECT period, revenue, eps, gross_margin, pe_ratio
			FROM fundamental_snapshots
			WHERE ticker = ?
			ORDER BY period DESC
			LIMIT ?
		)
		ORDER BY period ASC
	`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var quarters []Quarter
	for rows.Next() {
		var q Quarter
		var pe sql.NullFloat64

		if err := rows.Scan(&q.Period, &q.Revenue, &q.EPS, &q.GrossMargin, &pe); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if pe.Valid {
			q.PERatio = &pe.Float64
		}
		quarters = append(quarters, q)
	}

	return quarters, rows.Err()
}

// LatestRatios returns the most recent snapshot's ratios for a ticker.
// Used as the fallback when the live fetch fails.
func (s *SnapshotStore) LatestRatios(ticker string) (map[domain.Field]float64, error) {
	var ratiosJSON string
	err := s.db.QueryRow(`
		SELECT ratios FROM fundamental_snapshots
		WHERE ticker = ?
		ORDER BY period DESC
		LIMIT 1
	`, ticker).Scan(&ratiosJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest ratios: %w", err)
	}

	var ratios map[domain.Field]float64
	if err := json.Unmarshal([]byte(ratiosJSON), &ratios); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ratios: %w", err)
	}
	return ratios, nil
}

// NewestAge returns how old the newest snapshot is. Used by the health
// check to flag a stale store. Returns false when the store is empty.
func (s *SnapshotStore) NewestAge() (time.Duration, bool, error) {
	var createdAt time.Time
	err := s.db.QueryRow(`
		SELECT created_at FROM fundamental_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query newest snapshot: %w", err)
	}

	return time.Since(createdAt), true, nil
}
