package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/j-veylop/skycast/internal/config"
	"github.com/j-veylop/skycast/internal/httpapi"
	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/services"
)

// runServe exposes the weather service over HTTP until interrupted.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.LogLevel),
	}))

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return httpapi.New(cfg.ServeAddr, svcManager.Weather(), svcManager).Run(ctx)
}
