// Package server provides the HTTP REST API for the candidate research
// service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/config"
	"github.com/jonathan/candidate-research/internal/db"
	"github.com/jonathan/candidate-research/internal/pipeline"
)

// Runner executes research runs. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Server hosts the research API.
type Server struct {
	httpServer *http.Server
	runner     Runner
	database   *db.DB
	jwtService *JWTService
	validate   *validator.Validate
	logger     *zap.Logger
}

// Config holds server configuration. Database and JWT are optional: without
// a database the run endpoints that read history return 404, and without a
// JWT config all endpoints are unauthenticated.
type Config struct {
	Addr      string
	Database  *db.DB
	JWTConfig *config.JWTConfig
}

// New creates a server around the given pipeline runner.
func New(runner Runner, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		runner:   runner,
		database: cfg.Database,
		validate: validator.New(),
		logger:   logger,
	}
	if cfg.JWTConfig != nil {
		s.jwtService = NewJWTService(cfg.JWTConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /research", s.withAuth(s.handleResearch))
	mux.HandleFunc("GET /runs", s.withAuth(s.handleListRuns))
	mux.HandleFunc("GET /runs/{id}", s.withAuth(s.handleGetRun))
	mux.HandleFunc("GET /runs/{id}/artifacts/{step}", s.withAuth(s.handleGetArtifact))
	mux.HandleFunc("GET /health", s.handleHealth)

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // research runs are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the configured handler chain. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens for requests until an interrupt or termination signal
// arrives, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.database != nil {
		s.database.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

// withLogging logs each request with its duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// withAuth enforces bearer-token authentication when a JWT service is
// configured; otherwise it is a pass-through.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.jwtService == nil {
			next(w, r)
			return
		}

		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			s.errorResponse(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		if _, err := s.jwtService.ValidateToken(header[len(prefix):]); err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}
