// Package stats 维护探测的累计统计：发送/丢失计数与延迟样本
package stats

import (
	"math"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// Aggregator 统计聚合器
// 非并发安全：由调度器的更新循环串行访问
type Aggregator struct {
	sent    int
	lost    int
	samples []int64
	sum     int64

	// Welford's Online Algorithm 所需的累加器，用于标准差
	welfordCount int64
	welfordMean  float64
	welfordM2    float64

	min int64
	max int64
}

// New 创建空的统计聚合器
func New() *Aggregator {
	return &Aggregator{}
}

// RecordSuccess 记录一次成功探测
func (a *Aggregator) RecordSuccess(latencyMs int64) {
	if latencyMs < 0 {
		latencyMs = 0
	}
	a.sent++
	a.samples = append(a.samples, latencyMs)
	a.sum += latencyMs

	if len(a.samples) == 1 || latencyMs < a.min {
		a.min = latencyMs
	}
	if len(a.samples) == 1 || latencyMs > a.max {
		a.max = latencyMs
	}

	a.welfordCount++
	delta := float64(latencyMs) - a.welfordMean
	a.welfordMean += delta / float64(a.welfordCount)
	a.welfordM2 += delta * (float64(latencyMs) - a.welfordMean)
}

// RecordFailure 记录一次失败探测
func (a *Aggregator) RecordFailure() {
	a.sent++
	a.lost++
}

// Record 按结果类型记录
func (a *Aggregator) Record(outcome core.ProbeOutcome) {
	if outcome.IsSuccess() {
		a.RecordSuccess(outcome.LatencyMs)
		return
	}
	a.RecordFailure()
}

// AverageLatency 成功样本的算术平均值，无样本时ok为false
func (a *Aggregator) AverageLatency() (avg float64, ok bool) {
	if len(a.samples) == 0 {
		return 0, false
	}
	return float64(a.sum) / float64(len(a.samples)), true
}

// LossRate 丢包率（百分比），未发送任何探测时ok为false
func (a *Aggregator) LossRate() (rate float64, ok bool) {
	if a.sent == 0 {
		return 0, false
	}
	return float64(a.lost) / float64(a.sent) * 100, true
}

// StdDev 样本标准差，少于两个样本时ok为false
func (a *Aggregator) StdDev() (float64, bool) {
	if a.welfordCount < 2 {
		return 0, false
	}
	return math.Sqrt(a.welfordM2 / float64(a.welfordCount-1)), true
}

// Sent 已发送的探测数
func (a *Aggregator) Sent() int { return a.sent }

// Lost 已丢失的探测数
func (a *Aggregator) Lost() int { return a.lost }

// Samples 返回延迟样本的副本，从旧到新
func (a *Aggregator) Samples() []int64 {
	out := make([]int64, len(a.samples))
	copy(out, a.samples)
	return out
}

// Reset 清零所有计数并清空样本
func (a *Aggregator) Reset() {
	*a = Aggregator{}
}

// Snapshot 返回统计数据的一致性快照
func (a *Aggregator) Snapshot() core.StatsSnapshot {
	snap := core.StatsSnapshot{
		Sent:    a.sent,
		Lost:    a.lost,
		Samples: a.Samples(),
		Min:     a.min,
		Max:     a.max,
	}
	snap.Average, snap.HasAverage = a.AverageLatency()
	snap.LossRate, snap.HasLossRate = a.LossRate()
	snap.StdDev, _ = a.StdDev()
	return snap
}
