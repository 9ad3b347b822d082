package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/stocktake/pkg/config"
)

const sentryFlushTimeout = 2 * time.Second

// SetupSentry initializes the Sentry SDK for one process ("api", "worker").
// Without a DSN it does nothing and CaptureError becomes a no-op.
func SetupSentry(cfg *config.Config, process string) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: 0.2,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Tags == nil {
				event.Tags = map[string]string{}
			}
			event.Tags["process"] = process
			event.Tags["storage_backend"] = cfg.StorageBackend
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// CaptureError reports err with the given tags. Errors raised while handling
// an HTTP request are captured by SentryMiddleware instead.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// SentryFlush waits briefly for buffered events before process exit.
func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware captures handler panics and re-panics so the outer
// Recovery middleware still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}
