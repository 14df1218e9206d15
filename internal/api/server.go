// Package api provides the HTTP API server and handlers for the RunwayLens application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/runwaylens/runwaylens-server/internal/ratelimit"
	"github.com/runwaylens/runwaylens-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	analysis       *service.AnalysisService
	router         *chi.Mux
	api            huma.API
	logger         *slog.Logger
	refreshLimiter *ratelimit.KeyedLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(analysis *service.AnalysisService, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	// The consumer is a browser dashboard served from another origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	humaConfig := huma.DefaultConfig("RunwayLens API", "1.0.0")
	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		analysis: analysis,
		router:   router,
		api:      humaAPI,
		logger:   logger,
		// A refresh fans out to the upstream endpoints; one per 10s per
		// caller is plenty for a manual "reload" button.
		refreshLimiter: ratelimit.New(0.1, 2),
	}

	s.registerHealthRoutes()
	s.registerRecordRoutes()
	s.registerFilterRoutes()
	s.registerDistributionRoutes()
	s.registerDatasetRoutes()
	s.registerImageRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned background resources. Safe to call more
// than once.
func (s *Server) Close() {
	s.refreshLimiter.Stop()
}
