package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/keyosk/internal/app"
	"github.com/allisson/keyosk/internal/config"
)

// shutdownTimeout bounds the graceful shutdown of both servers.
const shutdownTimeout = 30 * time.Second

// lifecycle is a server that runs until shut down.
type lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer starts the API server and, when metrics are enabled, the metrics server.
// Blocks until SIGINT/SIGTERM or until either server fails, then shuts both down.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	servers := map[string]lifecycle{"api": server}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers["metrics"] = metricsServer
	}

	return serve(ctx, logger, servers)
}

// serve runs every server until ctx is done or one of them fails, then gracefully
// shuts all of them down.
func serve(ctx context.Context, logger *slog.Logger, servers map[string]lifecycle) error {
	g, gctx := errgroup.WithContext(ctx)

	for name, srv := range servers {
		g.Go(func() error {
			if err := srv.Start(gctx); err != nil {
				return fmt.Errorf("%s server error: %w", name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var errs []error
		for name, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("%s server shutdown: %w", name, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
