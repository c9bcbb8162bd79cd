package telemetry

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetersRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetersFrom(mp.Meter(InstrumentationName))
	if err != nil {
		t.Fatalf("NewMetersFrom() error: %v", err)
	}

	ctx := context.Background()
	m.RecordOutcome(ctx, "10.0.0.1", core.Success(5))
	m.RecordOutcome(ctx, "10.0.0.1", core.Failure(core.ReasonTimedOut))
	m.RecordOutcome(ctx, "10.0.0.1", core.Success(300))
	m.RecordStale(ctx)
	m.RecordGridWrap(ctx)

	metrics := collect(t, reader)

	if got := sumOf(t, metrics["visualping.probes"]); got != 3 {
		t.Errorf("expected 3 probes, got %d", got)
	}
	if got := sumOf(t, metrics["visualping.probes.stale"]); got != 1 {
		t.Errorf("expected 1 stale result, got %d", got)
	}
	if got := sumOf(t, metrics["visualping.grid.wraps"]); got != 1 {
		t.Errorf("expected 1 grid wrap, got %d", got)
	}

	hist, ok := metrics["visualping.probe.latency"].Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected latency histogram, got %T", metrics["visualping.probe.latency"].Data)
	}
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Errorf("expected 2 latency samples, got %d", count)
	}
}

func TestNilMetersAreSafe(t *testing.T) {
	var m *Meters
	ctx := context.Background()
	m.RecordOutcome(ctx, "x", core.Success(1))
	m.RecordStale(ctx)
	m.RecordGridWrap(ctx)

	(&Meters{}).RecordOutcome(ctx, "x", core.Success(1))
}

func TestInitMetricsDisabled(t *testing.T) {
	shutdown, err := InitMetrics(context.Background(), "", "test", time.Second)
	if err != nil {
		t.Fatalf("InitMetrics() error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown should not fail: %v", err)
	}
}
