package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/stocktake/migrations/inventory"
	"github.com/ghuser/stocktake/pkg/cache"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/database"
	"github.com/ghuser/stocktake/pkg/events"
	"github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/pkg/migrator"
	"github.com/ghuser/stocktake/pkg/telemetry"
)

// BootstrapOptions selects the optional infrastructure a process needs.
type BootstrapOptions struct {
	// EventBus connects the watermill bus. Only the postgres backend has one.
	EventBus bool
	// Forwarder publishes through the outbox forwarder queue (API process).
	Forwarder bool
	// Redis connects the summary cache when REDIS_URL is set.
	Redis bool
}

// Bootstrap opens the database for the configured backend, applies the
// inventory migrations and connects the optional event bus and cache. The
// returned Application must be released with Close.
func Bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger, opts BootstrapOptions) (*Application, error) {
	a := &Application{Config: cfg, Logger: log}

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.Db = db
	if db != nil {
		if err := migrator.RunMigrations(ctx, db, inventory.FS); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database ready", "storage_backend", cfg.StorageBackend)
	}

	if opts.EventBus && cfg.StorageBackend == config.BackendPostgres {
		newBus := events.NewEventBus
		if opts.Forwarder {
			newBus = events.NewEventBusWithForwarder
		}
		bus, err := newBus(cfg, log)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("event bus: %w", err)
		}
		a.EventBus = bus
		if opts.Forwarder {
			if err := bus.StartForwarder(ctx); err != nil {
				_ = a.Close()
				return nil, fmt.Errorf("start forwarder: %w", err)
			}
		}
	}

	if opts.Redis {
		rc, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.Redis = rc
		if rc != nil {
			log.Info("redis connected")
		}
	}

	m, err := telemetry.NewInventoryMetrics(nil)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}
	a.Metrics = m

	return a, nil
}

// Close releases every connection Bootstrap opened.
func (a *Application) Close() error {
	var errs []error
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	errs = append(errs, a.Redis.Close(), a.Db.Close())
	return errors.Join(errs...)
}
