package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/modules/review"
)

// ReviewCycleJob runs one full portfolio review. Overlapping fires skip
// rather than queue: a review that outlives its schedule slot must not
// stack a second run behind it.
type ReviewCycleJob struct {
	log     zerolog.Logger
	service *review.Service
	mu      sync.Mutex
}

// NewReviewCycleJob creates a review cycle job
func NewReviewCycleJob(service *review.Service, log zerolog.Logger) *ReviewCycleJob {
	return &ReviewCycleJob{
		log:     log.With().Str("job", "review_cycle").Logger(),
		service: service,
	}
}

// Name returns the job name
func (j *ReviewCycleJob) Name() string {
	return "review_cycle"
}

// Run executes the review cycle
func (j *ReviewCycleJob) Run() error {
	if !j.mu.TryLock() {
		j.log.Warn().Msg("Review cycle already running, skipping")
		return nil
	}
	defer j.mu.Unlock()

	j.log.Info().Msg("Starting review cycle")
	startTime := time.Now()

	run, err := j.service.RunReview(context.Background())
	if err != nil {
		j.log.Error().Err(err).Msg("Review cycle failed")
		return err
	}

	j.log.Info().
		Str("run_id", run.ID).
		Dur("duration", time.Since(startTime)).
		Msg("Review cycle completed")

	return nil
}
