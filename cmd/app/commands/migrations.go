package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateOptions selects what RunMigrations applies.
type MigrateOptions struct {
	// Dir holds one subdirectory per driver ("postgresql", "mysql").
	Dir string
	// Steps applies n up migrations, or rolls back -n when negative. Zero applies all.
	Steps int
}

// migrationsDir maps a DB_DRIVER value to its migrations subdirectory.
func migrationsDir(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "postgresql", nil
	case "mysql":
		return "mysql", nil
	}
	return "", fmt.Errorf("unsupported database driver: %s", driver)
}

// RunMigrations migrates the keyosk schema of driver and prints the resulting version.
// Returns nil when there is nothing to apply.
func RunMigrations(
	logger *slog.Logger,
	writer io.Writer,
	driver string,
	connectionString string,
	opts MigrateOptions,
) error {
	subdir, err := migrationsDir(driver)
	if err != nil {
		return err
	}
	if opts.Dir == "" {
		opts.Dir = "migrations"
	}

	logger.Info("running database migrations",
		slog.String("driver", driver),
		slog.String("dir", opts.Dir),
		slog.Int("steps", opts.Steps),
	)

	m, err := migrate.New("file://"+filepath.ToSlash(filepath.Join(opts.Dir, subdir)), connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if opts.Steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(opts.Steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		_, _ = fmt.Fprintln(writer, "Schema version: none")
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	default:
		_, _ = fmt.Fprintf(writer, "Schema version: %d (dirty: %t)\n", version, dirty)
	}

	logger.Info("migrations completed successfully")
	return nil
}
