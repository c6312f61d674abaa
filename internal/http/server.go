// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// listener runs one net/http server under a name used in logs.
type listener struct {
	name   string
	server *http.Server
	logger *slog.Logger
}

func newListener(name, host string, port int, logger *slog.Logger) listener {
	return listener{
		name: name,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (l *listener) serve(handler http.Handler) error {
	l.server.Handler = handler
	l.logger.Info("starting "+l.name, slog.String("addr", l.server.Addr))

	if err := l.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start %s: %w", l.name, err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (l *listener) Shutdown(ctx context.Context) error {
	l.logger.Info("shutting down " + l.name)
	return l.server.Shutdown(ctx)
}

// Server is the public API server.
type Server struct {
	listener
	router *gin.Engine
	checks map[string]ReadinessCheck
}

// NewServer creates the API server. The router is installed by SetupRouter. db, when
// set, is part of the readiness report.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	s := &Server{
		listener: newListener("http server", host, port, logger),
		checks:   map[string]ReadinessCheck{},
	}
	s.AddReadinessCheck("database", func(ctx context.Context) error {
		if db == nil {
			return fmt.Errorf("database not configured")
		}
		return db.PingContext(ctx)
	})
	return s
}

// AddReadinessCheck adds a named dependency to the /ready report.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	return s.serve(s.router)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness together with the state of each dependency.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := gin.H{}
	ready := true
	for _, name := range names {
		components[name] = "ok"
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
