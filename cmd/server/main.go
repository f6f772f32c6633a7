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

	"github.com/anshumaan69/tenderflow/config"
	"github.com/anshumaan69/tenderflow/internal/app"
	httpDelivery "github.com/anshumaan69/tenderflow/internal/delivery/http"
	"github.com/anshumaan69/tenderflow/internal/observability"
)

func main() {
	// Load configuration (.env, config.yaml, TENDERFLOW_* env)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Str("strategy", cfg.Matching.Strategy).
		Msg("starting TenderFlow backend v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}
	defer a.Close()

	handler := httpDelivery.NewHandler(a.Quotes, a.Catalog, httpDelivery.HandlerConfig{
		Archive:        a.Archive,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	})
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
