// @title                       Store API
// @version                     1.0
// @description                 User accounts, product catalogue and orders behind bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/store-api/internal/app"
	"github.com/99minutos/store-api/internal/infrastructure/config"
	"github.com/99minutos/store-api/internal/infrastructure/observability"
	"github.com/99minutos/store-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "store-api",
	})

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release); err != nil {
		log.Error().Err(err).Msg("sentry init failed")
	}
	defer observability.FlushSentry()

	rt, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		observability.FlushSentry()
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           rt.Echo,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := rt.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing connections failed")
	}
	log.Info().Msg("server stopped")

	if exitCode != 0 {
		observability.FlushSentry()
		os.Exit(exitCode)
	}
}
