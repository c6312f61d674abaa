package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BusinessMetrics records use case level operations. The component label names the
// bounded context ("account", "registry", "acl", "token").
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, component, operation, status string)
	RecordDuration(ctx context.Context, component, operation string, duration time.Duration, status string)
	// RecordTokenIssued counts tokens minted for a domain.
	RecordTokenIssued(ctx context.Context, domain string, refreshed bool)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	issued     metric.Int64Counter
}

// NewBusinessMetrics creates the business instruments prefixed with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	issued, err := meter.Int64Counter(
		fmt.Sprintf("%s_tokens_issued_total", namespace),
		metric.WithDescription("Total number of tokens issued per domain"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}

	return &businessMetrics{operations: operations, durations: durations, issued: issued}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, component, operation, status string) {
	b.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	component, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (b *businessMetrics) RecordTokenIssued(ctx context.Context, domain string, refreshed bool) {
	b.issued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.Bool("refreshed", refreshed),
	))
}

// Observe records both the count and the duration of an operation that started at
// start and finished with err.
func Observe(ctx context.Context, m BusinessMetrics, component, operation string, start time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.RecordOperation(ctx, component, operation, status)
	m.RecordDuration(ctx, component, operation, time.Since(start), status)
}

// NoOpBusinessMetrics discards everything. Used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics returns a BusinessMetrics that records nothing.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return NoOpBusinessMetrics{}
}

func (NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func (NoOpBusinessMetrics) RecordTokenIssued(context.Context, string, bool) {}
