// Package observe provides application-wide observability primitives for
// Rattil: OpenTelemetry metrics, tracing, structured logging, and HTTP
// middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Rattil metrics.
const meterName = "github.com/rattil/rattil"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// GradingDuration tracks the latency of one phrase comparison. The
	// engine runs in microseconds to low milliseconds, hence the sub-second
	// buckets.
	GradingDuration metric.Float64Histogram

	// Comparisons counts graded recitations. Use with attribute:
	//   attribute.String("outcome", "pass"|"fail")
	Comparisons metric.Int64Counter

	// Similarity records the distribution of raw similarity scores in [0,1].
	Similarity metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// gradingBuckets defines histogram bucket boundaries (in seconds) for the
// comparison engine, which completes well under a second.
var gradingBuckets = []float64{
	0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
}

// similarityBuckets covers the [0,1] similarity range in tenths.
var similarityBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.GradingDuration, err = m.Float64Histogram("rattil.grading.duration",
		metric.WithDescription("Latency of one recitation comparison."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(gradingBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Comparisons, err = m.Int64Counter("rattil.grading.comparisons",
		metric.WithDescription("Total graded recitations by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Similarity, err = m.Float64Histogram("rattil.grading.similarity",
		metric.WithDescription("Distribution of raw similarity scores."),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(similarityBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("rattil.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordComparison records one graded recitation: its latency, its raw
// similarity, and the pass/fail outcome counter.
func (m *Metrics) RecordComparison(ctx context.Context, similarity float64, passed bool, elapsed time.Duration) {
	outcome := "fail"
	if passed {
		outcome = "pass"
	}
	m.GradingDuration.Record(ctx, elapsed.Seconds())
	m.Similarity.Record(ctx, similarity)
	m.Comparisons.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}
