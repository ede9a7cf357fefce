package main

import (
	"context"
	"os"
	"time"

	"confbot/internal/infrastructure/repositories/sqlite"
	"confbot/pkg/config"
	"confbot/pkg/logger"
)

// seed creates the schema and loads the demo dataset. Safe to run more than
// once; existing rows are left alone.
func main() {
	configPath := os.Getenv("CONFBOT_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	store, err := sqlite.Open(cfg.Store.Path, cfg.Store.BusyTimeout)
	if err != nil {
		log.Fatalw("failed to open the store", "path", cfg.Store.Path, "error", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sqlite.LoadFixtures(ctx, store); err != nil {
		log.Fatalw("failed to load fixtures", "error", err)
	}

	log.Infow("demo data loaded", "path", cfg.Store.Path)
}
