package main

import (
	"context"
	"log"

	"github.com/ghuser/stocktake/migrations/inventory"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/database"
	pkglogger "github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/pkg/migrator"
)

// migrate applies the inventory schema to the configured SQL backend.
// The API, worker and CLI also migrate on startup; this binary exists for
// deploys that run migrations as a separate step.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := pkglogger.New(cfg)
	ctx := context.Background()

	var db *database.Database
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err = database.NewPool(ctx, cfg.DatabaseURL, logger)
	case config.BackendSQLite:
		db, err = database.OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		logger.Info("migrate: nothing to do", "storage_backend", cfg.StorageBackend)
		return
	}
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	if err := migrator.RunMigrations(ctx, db, inventory.FS); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("migrate: done", "storage_backend", cfg.StorageBackend)
}
