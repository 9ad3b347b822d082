package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/stocktake/inventory"

// Outcome attribute values for inventory_operations_total.
const (
	OutcomeOK      = "ok"
	OutcomeNoop    = "noop"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)

// InventoryMetrics records inventory operations. A nil *InventoryMetrics is
// valid and records nothing.
type InventoryMetrics struct {
	ops   metric.Int64Counter
	items metric.Int64Gauge
}

// NewInventoryMetrics registers the inventory instruments on meter. Pass a
// nil meter to use the global MeterProvider set by Setup.
func NewInventoryMetrics(meter metric.Meter) (*InventoryMetrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	ops, err := meter.Int64Counter("inventory_operations_total",
		metric.WithDescription("Inventory operations by name and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("inventory_operations_total: %w", err)
	}

	items, err := meter.Int64Gauge("inventory_items",
		metric.WithDescription("Number of tracked items after the last committed change."),
	)
	if err != nil {
		return nil, fmt.Errorf("inventory_items: %w", err)
	}

	return &InventoryMetrics{ops: ops, items: items}, nil
}

// RecordOperation counts one run of op with the given outcome.
func (m *InventoryMetrics) RecordOperation(ctx context.Context, op, outcome string) {
	if m == nil {
		return
	}
	m.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

// RecordItemCount reports the current number of items.
func (m *InventoryMetrics) RecordItemCount(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.items.Record(ctx, int64(n))
}
