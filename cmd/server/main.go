// Package main is the entry point for the village fund admin server.
// The server renders the operator screens (deposits and withdrawals, loans,
// members, account search, fund accounts) and talks to the fund-management
// REST API for every read and write. The only local state is the session
// database under VILLAGEFUND_DATA_DIR.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/di"
	"github.com/puyolnw/F/internal/server"
	"github.com/puyolnw/F/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from the environment (.env is honoured)
// 2. Initializes logging
// 3. Wires the container (session database, fund API client, services, jobs)
// 4. Starts the HTTP server and the job scheduler
// 5. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Fallback logger so the configuration error is still reported
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "villagefund-admin",
	})

	log.Info().
		Str("fund_api", cfg.FundAPIURL).
		Str("data_dir", cfg.DataDir).
		Msg("Starting village fund admin")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	// Stops the scheduler and closes the session database
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close container")
		}
	}()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
		Jobs:      jobs,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Probe the fund API once up front so the dashboard has a status before
	// the first scheduled run.
	if err := container.Scheduler.RunNow(jobs.BackendProbe); err != nil {
		log.Warn().Err(err).Msg("Fund API not reachable at startup")
	}
	container.Scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// In-flight requests get up to 10 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
