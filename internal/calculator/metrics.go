package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	eventsCounter       metric.Int64Counter
	computationsCounter metric.Int64Counter
	requestHistogram    metric.Float64Histogram
	errorCounter        metric.Int64Counter
	resultGauge         metric.Float64Gauge
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	eventsCounter, err = meter.Int64Counter("calculator.events.total",
		metric.WithDescription("Key events delivered to calculator engines"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating events counter: %w", err)
	}

	computationsCounter, err = meter.Int64Counter("calculator.computations.total",
		metric.WithDescription("Pending operations resolved by an operator or equals key"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating computations counter: %w", err)
	}

	requestHistogram, err = meter.Float64Histogram("calculator.request.duration",
		metric.WithDescription("Time spent applying a batch of key events in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating request histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The last finite value computed by any session"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
