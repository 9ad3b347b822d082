package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
)

var (
	errNotForwarder     = errors.New("events: bus was not created with NewEventBusWithForwarder")
	errForwarderStarted = errors.New("events: forwarder already started")
)

// StartForwarder starts delivering outbox messages to their topics and
// returns once the forwarder is running. It may be called once per bus.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.useForwarder {
		return errNotForwarder
	}
	if q.fwd != nil {
		return errForwarderStarted
	}

	wlog := newLogAdapter(q.log)

	outboxSub, err := newSQLSubscriber(q.db, "stocktake-forwarder", wlog)
	if err != nil {
		return err
	}
	targetPub, err := newSQLPublisher(q.db, true, wlog)
	if err != nil {
		_ = outboxSub.Close()
		return err
	}

	fwd, err := forwarder.NewForwarder(outboxSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: outboxTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = outboxSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started", "outbox", outboxTopic)
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}
