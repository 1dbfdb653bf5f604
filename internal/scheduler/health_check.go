package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/database"
	"github.com/aristath/portfolio-health/internal/modules/fundamentals"
)

// Snapshots older than this raise a staleness warning: quarterly data
// refreshed by a working fetch path should never lag a full quarter.
const snapshotStaleAfter = 120 * 24 * time.Hour

// HealthCheckJob verifies the service's storage is in working order:
// results database integrity, snapshot freshness, reports directory
// reachability. Degradations are logged WARN; only a corrupted results
// database fails the job.
type HealthCheckJob struct {
	log        zerolog.Logger
	db         *database.DB
	snapshots  *fundamentals.SnapshotStore
	reportsDir string
}

// HealthCheckConfig holds configuration for the health check job
type HealthCheckConfig struct {
	Log        zerolog.Logger
	DB         *database.DB
	Snapshots  *fundamentals.SnapshotStore
	ReportsDir string
}

// NewHealthCheckJob creates a new health check job
func NewHealthCheckJob(cfg HealthCheckConfig) *HealthCheckJob {
	return &HealthCheckJob{
		log:        cfg.Log.With().Str("job", "health_check").Logger(),
		db:         cfg.DB,
		snapshots:  cfg.Snapshots,
		reportsDir: cfg.ReportsDir,
	}
}

// Name returns the job name
func (j *HealthCheckJob) Name() string {
	return "health_check"
}

// Run executes the health check
func (j *HealthCheckJob) Run() error {
	j.log.Info().Msg("Starting health check")
	startTime := time.Now()

	if err := j.checkResultsDatabase(); err != nil {
		j.log.Error().Err(err).Msg("Results database integrity check failed")
		return err
	}

	j.checkSnapshotFreshness()
	j.checkReportsDir()

	j.log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Health check completed")

	return nil
}

// checkResultsDatabase runs SQLite's PRAGMA integrity_check on the
// main database. Corruption here is critical — results cannot be
// trusted or appended.
func (j *HealthCheckJob) checkResultsDatabase() error {
	var result string
	if err := j.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	j.log.Debug().Msg("Results database integrity OK")
	return nil
}

func (j *HealthCheckJob) checkSnapshotFreshness() {
	if j.snapshots == nil {
		j.log.Debug().Msg("Snapshot store not configured, skipping")
		return
	}

	if err := j.snapshots.Conn().Ping(); err != nil {
		j.log.Warn().Err(err).Msg("Snapshot database unreachable")
		return
	}

	age, found, err := j.snapshots.NewestAge()
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to check snapshot age")
		return
	}
	if !found {
		j.log.Warn().Msg("Snapshot store is empty, series-derived metrics unavailable")
		return
	}

	if age > snapshotStaleAfter {
		j.log.Warn().
			Dur("age", age).
			Msg("Newest snapshot is stale, fetch path may be broken")
	} else {
		j.log.Debug().Dur("age", age).Msg("Snapshot freshness OK")
	}
}

func (j *HealthCheckJob) checkReportsDir() {
	if j.reportsDir == "" {
		return
	}

	info, err := os.Stat(j.reportsDir)
	if os.IsNotExist(err) {
		// First run creates it; not a degradation.
		j.log.Debug().Str("dir", j.reportsDir).Msg("Reports directory not created yet")
		return
	}
	if err != nil {
		j.log.Warn().Err(err).Str("dir", j.reportsDir).Msg("Reports directory unreachable")
		return
	}
	if !info.IsDir() {
		j.log.Warn().Str("dir", j.reportsDir).Msg("Reports path exists but is not a directory")
	}
}
