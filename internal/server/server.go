// Package server provides the HTTP server and routing for the reserve stress service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/events"
	"github.com/aristath/reservestress/internal/modules/market"
	markethandlers "github.com/aristath/reservestress/internal/modules/market/handlers"
	"github.com/aristath/reservestress/internal/modules/performance"
	performancehandlers "github.com/aristath/reservestress/internal/modules/performance/handlers"
	"github.com/aristath/reservestress/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/reservestress/internal/modules/portfolio/handlers"
	"github.com/aristath/reservestress/internal/modules/stress"
	stresshandlers "github.com/aristath/reservestress/internal/modules/stress/handlers"
	"github.com/aristath/reservestress/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Port        int
	DevMode     bool
	DataDir     string
	Databases   []*database.DB
	Bus         *events.Bus
	Scheduler   *scheduler.Scheduler
	Portfolio   *portfolio.Service
	Stress      *stress.Service
	Market      *market.Service
	Performance *performance.Service
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            Config
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.DataDir, cfg.Databases, cfg.Scheduler),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5, "application/json"))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Long-lived streams are exempt from the request timeout
		if s.cfg.Bus != nil {
			r.Get("/events/stream", NewEventsStreamHandler(s.cfg.Bus, s.log).ServeHTTP)
			r.Get("/events/ws", NewEventsWebsocketHandler(s.cfg.Bus, s.log).ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
				r.Get("/jobs", s.systemHandlers.HandleJobsStatus)
				r.Post("/jobs/{name}/run", s.systemHandlers.HandleRunJob)
				r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			})

			if s.cfg.Portfolio != nil {
				portfoliohandlers.NewHandler(s.cfg.Portfolio, s.log).RegisterRoutes(r)
			}
			if s.cfg.Stress != nil {
				stresshandlers.NewHandler(s.cfg.Stress, s.log).RegisterRoutes(r)
			}
			if s.cfg.Market != nil {
				markethandlers.NewHandler(s.cfg.Market, s.log).RegisterRoutes(r)
			}
			if s.cfg.Performance != nil {
				performancehandlers.NewHandler(s.cfg.Performance, s.log).RegisterRoutes(r)
			}
		})
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status    string            `json:"status"`
	Databases map[string]string `json:"databases"`
	Timestamp time.Time         `json:"timestamp"`
}

// handleHealth reports ok when every database answers a ping
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Databases: map[string]string{}, Timestamp: time.Now().UTC()}
	status := http.StatusOK
	for _, db := range s.cfg.Databases {
		if err := db.QuickCheck(ctx); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("Health check failed")
			resp.Databases[db.Name()] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Databases[db.Name()] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode health response")
	}
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
