package app

import (
	"github.com/ghuser/stocktake/pkg/cache"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/database"
	"github.com/ghuser/stocktake/pkg/events"
	"github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/pkg/telemetry"
)

// Application holds the infrastructure shared by the API, worker and CLI.
// Bootstrap builds it; services.New wires the inventory on top of it.
//
// Logging: context methods on app.Logger pick up trace_id, span_id and
// request_id automatically:
//
//	app.Logger.InfoContext(ctx, "item added", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Db, EventBus and Redis are optional: Db is set only for the sqlite and
// postgres backends, EventBus only for postgres, Redis only when REDIS_URL
// is configured.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Metrics  *telemetry.InventoryMetrics
}
