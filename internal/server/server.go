package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"newslens/internal/categorization"
	"newslens/internal/clustering"
	"newslens/internal/config"
	"newslens/internal/issues"
	"newslens/internal/logger"
	"newslens/internal/persistence"
)

// Deps are the engines the API exposes. Repo is optional; without it the
// endpoints only accept articles in the request body.
type Deps struct {
	Clusterer *clustering.ArticleClusterer
	Extractor *issues.Extractor
	Repo      persistence.ArticleRepository
	Hierarchy categorization.Hierarchy
	MaxBatch  int // Largest issue batch accepted; 0 means no limit
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	deps       Deps
	config     config.Server
}

// New creates a new HTTP server instance
func New(deps Deps, cfg config.Server) *Server {
	if deps.Hierarchy == nil {
		deps.Hierarchy = categorization.DefaultHierarchy()
	}

	s := &Server{
		router: chi.NewRouter(),
		deps:   deps,
		config: cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  config.ParseDuration(cfg.ReadTimeout, 30*time.Second),
		WriteTimeout: config.ParseDuration(cfg.WriteTimeout, 120*time.Second),
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(jsonOnly)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/clusters", s.handleClusters)
		r.Post("/issues", s.handleIssues)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logger.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.httpServer.ReadTimeout.String(),
		"write_timeout", s.httpServer.WriteTimeout.String(),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
