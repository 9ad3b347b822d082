// Package events carries inventory change events over a PostgreSQL-backed
// Watermill bus.
//
// Delivery: subscribers of one process role share a consumer group
// (<service>-<role>), so each message is handled by one instance of that role.
// Handlers must be idempotent; a failed message is retried with exponential
// backoff and then Nacked for redelivery.
//
// Publishers either write directly to the topic table or, in forwarder mode,
// to an outbox queue drained by a background Forwarder. NewTxPublisher writes
// through the caller's transaction so a save and its events commit together.
//
// OTel trace context travels in message metadata in both directions.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	// outboxTopic is the queue the Forwarder drains in forwarder mode.
	outboxTopic = "stocktake_outbox"
)

// RetryPolicy bounds how often a failing handler is re-run for one delivery.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy tries a handler three times, waiting 1s then 2s.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: time.Second}

// EventBus publishes and subscribes to inventory topics.
type EventBus struct {
	publisher    message.Publisher // direct SQL publisher or forwarder-decorated
	subscriber   *watermillsql.Subscriber
	fwd          *forwarder.Forwarder // set by StartForwarder
	db           *sql.DB
	log          logger.Logger
	retry        RetryPolicy
	wg           sync.WaitGroup
	useForwarder bool
}

// NewEventBus connects to cfg.DatabaseURL and publishes straight to topic
// tables. Subscribers join the "<service>-consumer" group.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder is NewEventBus with publishes routed through the
// outbox queue. Call StartForwarder to begin delivering them.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := newLogAdapter(log)

	pub, err := newSQLPublisher(db, true, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sub, err := newSQLSubscriber(db, cfg.ServiceName+"-consumer", wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	return &EventBus{
		publisher:    wrapForwarder(pub, useForwarder),
		subscriber:   sub,
		db:           db,
		log:          log,
		retry:        DefaultRetryPolicy,
		useForwarder: useForwarder,
	}, nil
}

// SetRetryPolicy changes the policy for subscriptions made afterwards.
func (q *EventBus) SetRetryPolicy(p RetryPolicy) {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	q.retry = p
}

// DB returns the bus's own connection pool.
func (q *EventBus) DB() *sql.DB {
	return q.db
}

// Ping checks the bus database connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and forwarder, waits up to 30s for in-flight
// handlers, then closes the publisher and the database pool.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return q.db.Close()
}

func newSQLPublisher(db watermillsql.ContextExecutor, initSchema bool, wlog *logAdapter) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog *logAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

func wrapForwarder(pub message.Publisher, useForwarder bool) message.Publisher {
	if !useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}
