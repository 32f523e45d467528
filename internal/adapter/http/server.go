package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// BeachStore persists and lists a user's beaches.
type BeachStore interface {
	Create(ctx context.Context, beach domain.Beach) (domain.Beach, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Beach, error)
}

// ForecastBuilder builds the rated forecast for a set of beaches.
type ForecastBuilder interface {
	BuildForecast(ctx context.Context, beaches []domain.Beach) ([]domain.TimeForecast, error)
}

// Server exposes the beach and forecast API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	beaches    BeachStore
	forecasts  ForecastBuilder
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /beaches and /forecast routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, beaches BeachStore, forecasts ForecastBuilder, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:    r,
		beaches:   beaches,
		forecasts: forecasts,
		logger:    logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/forecast", s.handleGetForecast)
		r.Get("/beaches", s.handleListBeaches)
		r.Post("/beaches", s.handleCreateBeach)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
