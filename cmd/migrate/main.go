package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/99minutos/store-api/internal/infrastructure/config"
	"github.com/99minutos/store-api/internal/infrastructure/db/postgres"
	"github.com/99minutos/store-api/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Service: "migrate"})

	cfg, err := config.LoadPostgres(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, postgres.Config{URL: cfg.URL})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	switch *command {
	case "up":
		err = postgres.RunMigrations(ctx, db)
	case "status":
		err = postgres.MigrationStatus(ctx, db)
	case "down":
		err = postgres.MigrateDown(ctx, db, *target)
	default:
		log.Error().Str("command", *command).Msg("unsupported command")
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("command", *command).Msg("migration command failed")
		os.Exit(1)
	}

	log.Info().Str("command", *command).Msg("migration command completed")
}
