package listing

import (
	"context"
	"time"

	"github.com/findash/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/findash/backend/internal/application/listing"

// Option configures a Provider or InMemoryProvider
type Option func(*options)

type options struct {
	meter metric.Meter
}

// WithMeter records fetch metrics on meter instead of the global one
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.meter == nil {
		o.meter = otel.GetMeterProvider().Meter(meterName)
	}
	return o
}

// fetchMetrics times every page fetch and counts the ones that failed closed
type fetchMetrics struct {
	duration *telemetry.Histogram
	failures *telemetry.Counter
}

func newFetchMetrics(meter metric.Meter) *fetchMetrics {
	m, err := createFetchMetrics(meter)
	if err != nil {
		m, _ = createFetchMetrics(noop.NewMeterProvider().Meter(meterName))
	}
	return m
}

func createFetchMetrics(meter metric.Meter) (*fetchMetrics, error) {
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "list_fetch_duration_seconds",
		Description: "Time to count and fetch one list page",
		Unit:        "s",
		Boundaries:  telemetry.DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	failures, err := telemetry.NewCounter(meter, "list_fetch_failures_total",
		"List fetches answered with an empty page because data access failed", "{failure}")
	if err != nil {
		return nil, err
	}
	return &fetchMetrics{duration: duration, failures: failures}, nil
}

func (m *fetchMetrics) observe(ctx context.Context, list string, start time.Time, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	m.duration.RecordDuration(ctx, time.Since(start),
		telemetry.MetricList.String(list),
		telemetry.MetricOutcome.String(outcome))
}

func (m *fetchMetrics) fail(ctx context.Context, list, stage string) {
	m.failures.Inc(ctx, telemetry.MetricList.String(list), telemetry.MetricStage.String(stage))
}
