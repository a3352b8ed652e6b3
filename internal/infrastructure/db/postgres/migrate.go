package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsDir = "migrations"

func setupGoose() error {
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}
	return nil
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// MigrationStatus prints applied and pending migrations through goose's logger.
func MigrationStatus(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// MigrateDown rolls back the latest migration, or down to target when it is
// positive.
func MigrateDown(ctx context.Context, db *sql.DB, target int64) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if target > 0 {
		if err := goose.DownToContext(ctx, db, migrationsDir, target); err != nil {
			return fmt.Errorf("rollback to version %d: %w", target, err)
		}
		return nil
	}
	if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}
	return nil
}
