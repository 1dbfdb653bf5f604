package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/catalog"
	"github.com/aristath/portfolio-health/internal/modules/review"
	"github.com/aristath/portfolio-health/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DevMode bool

	Repo      *review.Repository
	RecRepo   *review.RecommendationRepository
	Metrics   *catalog.MetricCatalog
	Factors   *catalog.RiskCatalog
	Scheduler *scheduler.Scheduler
	ReviewJob scheduler.Job
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	port   int

	repo      *review.Repository
	recRepo   *review.RecommendationRepository
	metrics   *catalog.MetricCatalog
	factors   *catalog.RiskCatalog
	scheduler *scheduler.Scheduler
	reviewJob scheduler.Job
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		port:      cfg.Port,
		repo:      cfg.Repo,
		recRepo:   cfg.RecRepo,
		metrics:   cfg.Metrics,
		factors:   cfg.Factors,
		scheduler: cfg.Scheduler,
		reviewJob: cfg.ReviewJob,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/catalog", s.handleCatalog)

		r.Route("/review", func(r chi.Router) {
			r.Get("/latest", s.handleLatestReview)
			r.Get("/ticker/{ticker}", s.handleTickerHistory)
			r.Post("/run", s.handleRunReview)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/recent", s.handleRecentAlerts)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/run/{runID}", s.handleRunRecommendations)
			r.Get("/open/{ticker}", s.handleOpenRecommendations)
			r.Put("/{id}/status", s.handleUpdateRecommendation)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
