package services

import (
	"context"
	"fmt"

	"github.com/ghuser/stocktake/pkg/app"
	"github.com/ghuser/stocktake/pkg/cache"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/services/inventory/domain/repositories"
	"github.com/ghuser/stocktake/services/inventory/infrastructure/persistence/file"
	"github.com/ghuser/stocktake/services/inventory/infrastructure/persistence/memory"
	"github.com/ghuser/stocktake/services/inventory/infrastructure/persistence/sqlstore"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Inventory *InventoryService
	// Storage is the repository behind Inventory, exposed for health checks.
	Storage repositories.InventoryRepository
}

// New opens the inventory on the backend selected by a.Config and wires the
// optional cache, event bus and metrics from the Application container.
func New(ctx context.Context, a *app.Application) (*Services, error) {
	repo, err := NewRepository(a)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLogger(a.Logger), WithMetrics(a.Metrics)}
	if a.Redis != nil {
		opts = append(opts, WithSummaryCache(cache.NewSummaryCache(a.Redis)))
	}
	if _, outbox := repo.(repositories.OutboxSaver); !outbox && a.EventBus != nil {
		opts = append(opts, WithPublisher(a.EventBus))
	}

	inv, err := Open(ctx, repo, opts...)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	return &Services{Inventory: inv, Storage: repo}, nil
}

// NewRepository returns the repository for the configured storage backend.
// On postgres with an event bus, saves and events share one transaction.
func NewRepository(a *app.Application) (repositories.InventoryRepository, error) {
	switch a.Config.StorageBackend {
	case config.BackendFile:
		return file.New(a.Config.DataDir)
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite, config.BackendPostgres:
		if a.Db == nil {
			return nil, fmt.Errorf("storage backend %q needs a database connection", a.Config.StorageBackend)
		}
		repo := sqlstore.New(a.Db)
		if a.Config.StorageBackend == config.BackendPostgres && a.EventBus != nil {
			return repo.WithOutbox(a.EventBus), nil
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.Config.StorageBackend)
	}
}
