package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/stocktake/docs/swagger"
	"github.com/ghuser/stocktake/pkg/app"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/httpx"
	"github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/pkg/telemetry"
	inventoryApi "github.com/ghuser/stocktake/services/inventory/application/api"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
)

// @title			stocktake API
// @version		1.0
// @description	Personal inventory tracker: items, categories and per-category counts.
// @contact.name	API Support
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg, "api"); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig, err := app.Bootstrap(ctx, cfg, log, app.BootstrapOptions{
		EventBus:  true,
		Forwarder: true,
		Redis:     true,
	})
	if err != nil {
		log.Error("failed to start infrastructure", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer appConfig.Close() //nolint:errcheck

	svcs, err := appsvcs.New(ctx, appConfig)
	if err != nil {
		log.Error("failed to open inventory", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(healthChecks(appConfig, svcs)))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		inventoryApi.InventoryRoutes(r, svcs, cfg.Environment == config.EnvProduction)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "storage_backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// healthChecks probes storage plus whichever optional dependencies are
// configured; absent ones report "disabled".
func healthChecks(a *app.Application, svcs *appsvcs.Services) httpx.HealthChecks {
	checks := httpx.HealthChecks{"storage": nil, "redis": nil, "event_bus": nil}
	if hc, ok := svcs.Storage.(httpx.HealthChecker); ok {
		checks["storage"] = hc
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis
	}
	if a.EventBus != nil {
		checks["event_bus"] = a.EventBus
	}
	return checks
}
