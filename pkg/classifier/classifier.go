// Package classifier 将探测结果映射为可视信号
// 这是可视化语义的唯一来源：纯函数、确定性、无副作用
package classifier

import "github.com/Kevin-Rudy/visualping/pkg/core"

// 失败原因对应的固定颜色
var (
	ColorNetworkUnreachable = core.RGB{R: 95, G: 158, B: 160} // CadetBlue
	ColorHostUnreachable    = core.RGB{R: 255, G: 0, B: 255}  // Magenta
	ColorTimedOut           = core.RGB{R: 255, G: 0, B: 0}    // Red
	ColorOther              = core.RGB{R: 0, G: 0, B: 0}      // Black
	ColorBrightGreen        = core.RGB{R: 0, G: 255, B: 0}
)

const (
	// FastLatencyMs 小于等于该延迟的成功结果显示为最亮的绿色
	FastLatencyMs = 10

	// DefaultTimeoutMs 超时参数无效时使用的渐变基准
	DefaultTimeoutMs = 1000
)

// 失败严重程度，仅用于下游区分，不影响颜色
const (
	SeverityNone        = 0
	SeverityOther       = 1
	SeverityUnreachable = 2
	SeverityTimedOut    = 3
)

// Classify 将探测结果映射为可视信号
// 成功结果的绿色通道随延迟线性衰减，衰减基准是当前的超时时间
func Classify(outcome core.ProbeOutcome, timeoutMs int64) core.VisualSignal {
	if outcome.IsSuccess() {
		return core.VisualSignal{
			Color:    core.RGB{G: GreenLevel(outcome.LatencyMs, timeoutMs)},
			Severity: SeverityNone,
		}
	}

	switch outcome.Reason {
	case core.ReasonNetworkUnreachable:
		return core.VisualSignal{Color: ColorNetworkUnreachable, Severity: SeverityUnreachable}
	case core.ReasonHostUnreachable:
		return core.VisualSignal{Color: ColorHostUnreachable, Severity: SeverityUnreachable}
	case core.ReasonTimedOut:
		return core.VisualSignal{Color: ColorTimedOut, Severity: SeverityTimedOut}
	default:
		return core.VisualSignal{Color: ColorOther, Severity: SeverityOther}
	}
}

// GreenLevel 计算成功结果的绿色通道值
// clamp(255 - latency*255/timeout, 0, 255)，整数除法截断
func GreenLevel(latencyMs, timeoutMs int64) uint8 {
	if latencyMs <= FastLatencyMs {
		return 255
	}
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}

	green := 255 - latencyMs*255/timeoutMs
	if green < 0 {
		return 0
	}
	if green > 255 {
		return 255
	}
	return uint8(green)
}
