package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/stocktake/pkg/logger"
)

// Handler processes one message. The context carries the publisher's trace.
type Handler func(ctx context.Context, msg *message.Message) error

// Subscribe runs handler for every message on topic until ctx is cancelled
// or the bus is closed. A nil return Acks the message; an error is retried
// per the bus RetryPolicy and then Nacked and sent to the returned channel.
//
// The channel is buffered (100) and closed when the subscription ends.
// Callers must drain it:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	policy := q.retry

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			if err := runWithRetry(msgCtx, msg, handler, policy, q.log); err != nil {
				msg.Nack()
				select {
				case errCh <- fmt.Errorf("%s %s: %w", topic, msg.UUID, err):
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// runWithRetry calls handler up to policy.Attempts times, doubling the delay
// after each failure. It returns the last error once attempts run out.
func runWithRetry(ctx context.Context, msg *message.Message, handler Handler, policy RetryPolicy, log logger.Logger) error {
	delay := policy.BaseDelay
	var err error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == policy.Attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt, "attempts", policy.Attempts, "next_delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", policy.Attempts, err)
}
