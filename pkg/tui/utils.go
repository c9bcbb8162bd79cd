// Package tui 工具函数
package tui

import (
	"fmt"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// reasonLabels 失败原因的显示文字
var reasonLabels = map[core.FailureReason]string{
	core.ReasonNetworkUnreachable: "网络不可达",
	core.ReasonHostUnreachable:    "主机不可达",
	core.ReasonTimedOut:           "超时",
	core.ReasonOther:              "失败",
}

// formatCurrent 最近一次探测结果，成功显示"N ms"
func formatCurrent(state core.EngineState) string {
	if !state.HasLast {
		return "--"
	}
	if state.Last.IsSuccess() {
		return formatMs(state.Last.LatencyMs)
	}
	if label, ok := reasonLabels[state.Last.Reason]; ok {
		return "[red]" + label + "[white]"
	}
	return "[red]失败[white]"
}

// formatMs 毫秒值
func formatMs(ms int64) string {
	return fmt.Sprintf("%d ms", ms)
}

// formatDuration 以毫秒显示时长
func formatDuration(d time.Duration) string {
	return formatMs(d.Milliseconds())
}

// summaryValues 统计行各列的显示值，顺序与summaryHeaders一致
// 没有数据时平均延迟显示"-- ms"，丢包率显示"0%"
func summaryValues(state core.EngineState) []string {
	stats := state.Stats

	status := "[yellow]已停止[white]"
	if state.Running {
		status = "[green]运行中[white]"
	}

	avg := "-- ms"
	minLatency, maxLatency := "--", "--"
	if stats.HasAverage {
		avg = fmt.Sprintf("%.0f ms", stats.Average)
		minLatency = formatMs(stats.Min)
		maxLatency = formatMs(stats.Max)
	}

	loss := "0%"
	if stats.HasLossRate {
		loss = fmt.Sprintf("%.1f%%", stats.LossRate)
	}

	return []string{
		status,
		formatCurrent(state),
		avg,
		loss,
		fmt.Sprintf("%d", stats.Sent),
		fmt.Sprintf("%d", stats.Lost),
		minLatency,
		maxLatency,
		formatDuration(state.Config.Interval),
		formatDuration(state.Config.Timeout),
	}
}
