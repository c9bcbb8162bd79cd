// Package telemetry 提供探测相关的 OpenTelemetry 指标
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// InstrumentationName 指标的 instrumentation scope 名称
const InstrumentationName = "github.com/Kevin-Rudy/visualping"

// Meters 预先创建的指标仪表
// 零值和nil都可以安全调用，此时不记录任何内容
type Meters struct {
	ProbesTotal   metric.Int64Counter     // 按结果分类的探测总数
	LatencyMs     metric.Float64Histogram // 成功探测的延迟
	StaleTotal    metric.Int64Counter     // 因代际失效而丢弃的结果
	GridWrapTotal metric.Int64Counter     // 网格写满清空次数
}

// NewMeters 使用全局 MeterProvider 创建指标仪表
func NewMeters() (*Meters, error) {
	return NewMetersFrom(otel.Meter(InstrumentationName))
}

// NewMetersFrom 使用指定的 Meter 创建指标仪表
func NewMetersFrom(meter metric.Meter) (*Meters, error) {
	probesTotal, err := meter.Int64Counter(
		"visualping.probes",
		metric.WithDescription("Number of completed probes by outcome"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(
		"visualping.probe.latency",
		metric.WithDescription("Round trip time of successful probes"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stale, err := meter.Int64Counter(
		"visualping.probes.stale",
		metric.WithDescription("Probe results discarded because the scheduler was stopped or restarted"),
	)
	if err != nil {
		return nil, err
	}

	wraps, err := meter.Int64Counter(
		"visualping.grid.wraps",
		metric.WithDescription("Times the grid filled up and was cleared"),
	)
	if err != nil {
		return nil, err
	}

	return &Meters{
		ProbesTotal:   probesTotal,
		LatencyMs:     latency,
		StaleTotal:    stale,
		GridWrapTotal: wraps,
	}, nil
}

// RecordOutcome 记录一次已交付的探测结果
func (m *Meters) RecordOutcome(ctx context.Context, address string, outcome core.ProbeOutcome) {
	if m == nil || m.ProbesTotal == nil {
		return
	}

	result := "success"
	if !outcome.IsSuccess() {
		result = outcome.Reason.String()
	}
	attrs := metric.WithAttributes(
		attribute.String("probe.address", address),
		attribute.String("probe.result", result),
	)
	m.ProbesTotal.Add(ctx, 1, attrs)

	if outcome.IsSuccess() && m.LatencyMs != nil {
		m.LatencyMs.Record(ctx, float64(outcome.LatencyMs),
			metric.WithAttributes(attribute.String("probe.address", address)))
	}
}

// RecordStale 记录一次被丢弃的过期结果
func (m *Meters) RecordStale(ctx context.Context) {
	if m == nil || m.StaleTotal == nil {
		return
	}
	m.StaleTotal.Add(ctx, 1)
}

// RecordGridWrap 记录一次网格清空
func (m *Meters) RecordGridWrap(ctx context.Context) {
	if m == nil || m.GridWrapTotal == nil {
		return
	}
	m.GridWrapTotal.Add(ctx, 1)
}
