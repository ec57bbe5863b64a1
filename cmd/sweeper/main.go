package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"motive/internal/config"
	"motive/internal/logger"
	"motive/internal/sweeper"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Separate NATS client identity from the API
	cfg.NATS.ClientID = "motive-sweeper"

	svc, err := sweeper.NewService(cfg)
	if err != nil {
		logger.Fatal("Failed to create sweeper service", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		logger.Fatal("Failed to start sweeper", "error", err)
	}

	logger.Get().Info("Sweeper started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down sweeper...")
	cancel()

	if err := svc.Shutdown(); err != nil {
		logger.Get().Error("Error during shutdown", "error", err)
	}

	logger.Get().Info("Sweeper stopped")
}
