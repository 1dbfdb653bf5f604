package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "portfolio-health",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleStatus reports process stats and the newest recorded run
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := map[string]interface{}{
		"status": "running",
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}

	if run, err := s.repo.LatestRun(); err == nil && run != nil {
		response["latest_run"] = run
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCatalog returns the active metric and risk factor definitions
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":      s.metrics.All(),
		"risk_factors": s.factors.All(),
	})
}

// handleLatestReview returns the newest run with its full results
func (s *Server) handleLatestReview(w http.ResponseWriter, r *http.Request) {
	run, err := s.repo.LatestRun()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load latest run")
		s.writeError(w, http.StatusInternalServerError, "failed to load latest run")
		return
	}
	if run == nil {
		s.writeError(w, http.StatusNotFound, "no review run recorded yet")
		return
	}

	results, err := s.repo.ResultsForRun(run.ID)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to load run results")
		s.writeError(w, http.StatusInternalServerError, "failed to load run results")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":     run,
		"results": results,
	})
}

// handleTickerHistory returns a ticker's results across recent runs
func (s *Server) handleTickerHistory(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	limit := queryInt(r, "limit", 30)
	results, err := s.repo.HistoryForTicker(ticker, limit)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to load ticker history")
		s.writeError(w, http.StatusInternalServerError, "failed to load ticker history")
		return
	}
	if len(results) == 0 {
		s.writeError(w, http.StatusNotFound, "no results for ticker")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"results": results,
	})
}

// handleRunReview triggers a review cycle outside the schedule. The
// run happens in the background; an in-flight cycle makes this a
// no-op.
func (s *Server) handleRunReview(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := s.scheduler.RunNow(s.reviewJob); err != nil {
			s.log.Error().Err(err).Msg("Manual review run failed")
		}
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "review started",
	})
}

// handleRecentAlerts returns the newest alerts across runs
func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	alerts, err := s.repo.RecentAlerts(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load alerts")
		s.writeError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// handleRunRecommendations returns every recommendation from one run
func (s *Server) handleRunRecommendations(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	recs, err := s.recRepo.ForRun(runID)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("Failed to load recommendations")
		s.writeError(w, http.StatusInternalServerError, "failed to load recommendations")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// handleOpenRecommendations returns a ticker's pending recommendations
func (s *Server) handleOpenRecommendations(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	recs, err := s.recRepo.OpenForTicker(ticker)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to load open recommendations")
		s.writeError(w, http.StatusInternalServerError, "failed to load open recommendations")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// handleUpdateRecommendation updates a recommendation's status
func (s *Server) handleUpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch body.Status {
	case "open", "acknowledged", "dismissed", "acted":
	default:
		s.writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := s.recRepo.UpdateStatus(id, body.Status); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("Failed to update recommendation")
		s.writeError(w, http.StatusInternalServerError, "failed to update recommendation")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "updated",
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
