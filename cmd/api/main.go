package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	shared "github.com/versionsup/server/pkg"
	"github.com/versionsup/server/pkg/api"
	"github.com/versionsup/server/pkg/bootstrap"
	"github.com/versionsup/server/pkg/domain/workout"
	infrasentry "github.com/versionsup/server/pkg/infrastructure/sentry"
	"github.com/versionsup/server/pkg/integrations/strava"
)

func main() {
	ctx := context.Background()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		slog.Error("Service init failed", "error", err)
		os.Exit(1)
	}
	cfg := svc.Config

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := bootstrap.NewLogger("api")

	if err := infrasentry.Init(infrasentry.Config{
		DSN:         os.Getenv("SENTRY_DSN"),
		Environment: os.Getenv("SENTRY_ENVIRONMENT"),
		Release:     os.Getenv("SENTRY_RELEASE"),
	}, logger); err != nil {
		logger.Warn("Sentry init failed, continuing without it", "error", err)
	}
	defer infrasentry.Flush(2 * time.Second)

	stravaClient := strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret, cfg.StravaRedirectURI)
	workoutSvc := workout.NewService(svc.DB, stravaClient, svc.AI, shared.DefaultActivityPageSize, logger)
	handler := api.NewHandler(workoutSvc, svc.DB, logger)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewRouter(handler, svc.Auth, cfg.AllowedOrigins, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
