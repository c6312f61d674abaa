package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyosk/internal/metrics"
)

// MetricsServer exposes the Prometheus scrape endpoint on its own port.
type MetricsServer struct {
	listener
	router *gin.Engine
}

// NewMetricsServer creates the metrics server for provider.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}

	return &MetricsServer{
		listener: newListener("metrics server", host, port, logger),
		router:   router,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	return s.serve(s.router)
}
