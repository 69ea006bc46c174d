package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"namidia/internal/config"
	"namidia/internal/consumers"
	"namidia/internal/logger"
)

func main() {
	cfg := config.Load()
	cfg.NATS.ClientID = "namidia-consumers"

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting consumers service...")

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := consumerService.Start(runCtx); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	slog.Info("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down consumers service...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Consumers service stopped")
}
