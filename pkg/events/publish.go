package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// NewJSONMessage encodes payload as a message with a fresh UUID.
func NewJSONMessage(payload any) (*message.Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), b)
	msg.Metadata.Set("content_type", "application/json")
	return msg, nil
}

// InjectTrace copies the OTel trace context from ctx into msg metadata.
func InjectTrace(ctx context.Context, msg *message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
}

// PublishJSON encodes payload and publishes it to topic.
func (q *EventBus) PublishJSON(ctx context.Context, topic string, payload any) error {
	msg, err := NewJSONMessage(payload)
	if err != nil {
		return err
	}
	return q.Publish(ctx, topic, msg)
}

// Publish sends msgs to topic with the trace context of ctx attached.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		InjectTrace(ctx, msg)
	}
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// NewTxPublisher returns a publisher that writes inside tx, so events commit
// or roll back with the caller's writes. In forwarder mode the messages land
// in the outbox queue. The bus must already have created its tables.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := newSQLPublisher(tx, false, newLogAdapter(q.log))
	if err != nil {
		return nil, err
	}
	return wrapForwarder(pub, q.useForwarder), nil
}
