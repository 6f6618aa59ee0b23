package main

import (
	"context"
	"os/signal"
	"syscall"

	"vendure/importer/internal/config"
	"vendure/importer/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting Vendure catalog importer...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	// Initialize container with all dependencies
	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run the import. Row-level failures are counted, not fatal; only a
	// setup/connection problem exits non-zero.
	if err := app.Run(ctx); err != nil {
		log.Fatalf("Import aborted: %v", err)
	}

	log.Info("Import finished successfully")
}
