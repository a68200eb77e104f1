package observe

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// collect gathers all metric data from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

// findMetric searches for a metric by name across all scope metrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestRecordComparison_RecordsAllInstruments(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordComparison(ctx, 0.95, true, 120*time.Microsecond)
	m.RecordComparison(ctx, 0.4, false, 80*time.Microsecond)

	rm := collect(t, reader)

	counter := findMetric(rm, "rattil.grading.comparisons")
	if counter == nil {
		t.Fatal("rattil.grading.comparisons not found")
	}
	sum, ok := counter.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("comparisons data type = %T, want Sum[int64]", counter.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("comparisons total = %d, want 2", total)
	}
	// One data point per outcome attribute.
	if len(sum.DataPoints) != 2 {
		t.Errorf("comparisons data points = %d, want 2 (pass and fail)", len(sum.DataPoints))
	}

	hist := findMetric(rm, "rattil.grading.duration")
	if hist == nil {
		t.Fatal("rattil.grading.duration not found")
	}
	hd, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("duration data type = %T, want Histogram[float64]", hist.Data)
	}
	var count uint64
	for _, dp := range hd.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Errorf("duration observations = %d, want 2", count)
	}

	sim := findMetric(rm, "rattil.grading.similarity")
	if sim == nil {
		t.Fatal("rattil.grading.similarity not found")
	}
}

func TestDefaultMetrics_ReturnsSameInstance(t *testing.T) {
	a := DefaultMetrics()
	b := DefaultMetrics()
	if a != b {
		t.Error("DefaultMetrics returned different instances")
	}
}
