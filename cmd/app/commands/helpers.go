// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// AccountFinder resolves the account a command operates on.
type AccountFinder interface {
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)
	GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error)
}

// resolveAccount looks an account up by uuid, falling back to the username.
func resolveAccount(ctx context.Context, finder AccountFinder, ref string) (*accountDomain.Account, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return finder.Get(ctx, id)
	}
	return finder.GetByUsername(ctx, ref)
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// writeJSON writes v as indented JSON for machine consumption.
func writeJSON(writer io.Writer, v any) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
