package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// migrator is the subset of goose used here, swappable in tests.
type migrator interface {
	Up(ctx context.Context, db *sql.DB) error
	Version(ctx context.Context, db *sql.DB) (int64, error)
}

type gooseMigrator struct{}

func (gooseMigrator) Up(ctx context.Context, db *sql.DB) error {
	return goose.UpContext(ctx, db, ".")
}

func (gooseMigrator) Version(ctx context.Context, db *sql.DB) (int64, error) {
	return goose.GetDBVersionContext(ctx, db)
}

var runner migrator = gooseMigrator{}

func setupGoose() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	dir, err := fs.Sub(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(dir)
	goose.SetLogger(goose.NopLogger())
	return nil
}

// EnsureMigrated applies every pending embedded migration.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress")

	if err := setupGoose(); err != nil {
		log.ErrorContext(ctx, "db_migration_failed", "status", "error", "error_message", err.Error())
		return err
	}

	if err := runner.Up(ctx, db); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := runner.Version(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"schema_version", version,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
