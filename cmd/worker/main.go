package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/stocktake/pkg/app"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/pkg/telemetry"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	inventoryEvents "github.com/ghuser/stocktake/services/inventory/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg, "worker"); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig, err := app.Bootstrap(ctx, cfg, log, app.BootstrapOptions{EventBus: true, Redis: true})
	if err != nil {
		log.Error("failed to start infrastructure", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer appConfig.Close() //nolint:errcheck

	if appConfig.EventBus == nil {
		log.Error("worker needs the event bus, which requires STORAGE_BACKEND=postgres",
			"storage_backend", cfg.StorageBackend)
		os.Exit(1) //nolint:gocritic
	}
	if appConfig.Redis == nil {
		log.Warn("REDIS_URL is not set, summary cache rebuilds will be skipped")
	}

	svcs, err := appsvcs.New(ctx, appConfig)
	if err != nil {
		log.Error("failed to open inventory", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	subCtx, cancelSubs := context.WithCancel(ctx)
	if err := registerSubscribers(subCtx, appConfig, svcs); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancelSubs()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires a summary rebuild to every inventory topic.
func registerSubscribers(ctx context.Context, a *app.Application, svcs *appsvcs.Services) error {
	topics := []string{inventoryEvents.TopicItemChanged, inventoryEvents.TopicCategoryChanged}
	for _, topic := range topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handleInventoryChanged(a.Logger, svcs, topic))
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
				telemetry.CaptureError(ctx, err, map[string]string{"topic": topic})
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleInventoryChanged reloads the inventory from storage and rewrites the
// summary cache. Handlers must be idempotent; EventBus retries failures per its RetryPolicy.
func handleInventoryChanged(log logger.Logger, svcs *appsvcs.Services, topic string) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var envelope struct {
			EventID string `json:"event_id"`
			Action  string `json:"action"`
		}
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			return err
		}

		if err := svcs.Inventory.Reload(ctx); err != nil {
			return err
		}
		svcs.Inventory.RefreshSummaryCache(ctx)

		log.InfoContext(ctx, "summary rebuilt",
			"topic", topic, "event_id", envelope.EventID, "action", envelope.Action)
		return nil
	}
}
