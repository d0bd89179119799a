package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/objkit/objkit/observability"

// StorageMetrics holds the instruments storage operations record to.
// A nil *StorageMetrics is valid and records nothing.
type StorageMetrics struct {
	operations metric.Int64Counter
	errors     metric.Int64Counter
	duration   metric.Float64Histogram
	payload    metric.Int64Histogram
}

// NewStorageMetrics creates the storage instrument set on the global meter.
func NewStorageMetrics() (*StorageMetrics, error) {
	meter := otel.Meter(meterName)

	operations, err := meter.Int64Counter("storage.operations",
		metric.WithDescription("Completed storage operations by operation and status"))
	if err != nil {
		return nil, fmt.Errorf("creating operations counter: %w", err)
	}

	errCounter, err := meter.Int64Counter("storage.errors",
		metric.WithDescription("Failed storage operations by operation and error code"))
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram("storage.operation.duration",
		metric.WithDescription("Storage operation duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	payload, err := meter.Int64Histogram("storage.payload.size",
		metric.WithDescription("Uploaded/downloaded payload size"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("creating payload histogram: %w", err)
	}

	return &StorageMetrics{
		operations: operations,
		errors:     errCounter,
		duration:   duration,
		payload:    payload,
	}, nil
}

// RecordOperation records one completed operation with its outcome.
func (m *StorageMetrics) RecordOperation(ctx context.Context, op, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("status", status),
	)
	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(d.Milliseconds()), attrs)
}

// RecordError records one failed operation with its taxonomy code.
func (m *StorageMetrics) RecordError(ctx context.Context, op, code string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("code", code),
	))
}

// RecordPayload records the byte size moved by an upload or download.
func (m *StorageMetrics) RecordPayload(ctx context.Context, op string, size int64) {
	if m == nil {
		return
	}
	m.payload.Record(ctx, size, metric.WithAttributes(
		attribute.String("operation", op),
	))
}
