// Package core 定义了可视化ping引擎的核心接口和数据结构
// 这些类型保证了调度器、探测执行器与渲染层之间的完全解耦
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig 配置错误，唯一会返回给调用方的错误类型
var ErrInvalidConfig = errors.New("invalid probe config")

// MinTimeout 超时以毫秒参与颜色计算，不足1ms会被截断为0
const MinTimeout = time.Millisecond

// ProbeConfig 探测配置，仅在调度器启动/停止之间变更
type ProbeConfig struct {
	Address  string        // 目标地址（IP或域名）
	Interval time.Duration // 探测间隔
	Timeout  time.Duration // 单次探测超时
}

// Validate 验证配置的合理性
func (c ProbeConfig) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: 目标地址不能为空", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: 探测间隔必须大于0", ErrInvalidConfig)
	}
	return ValidateTimeout(c.Timeout)
}

// ValidateTimeout 检查超时时间不小于 MinTimeout
func ValidateTimeout(d time.Duration) error {
	if d < MinTimeout {
		return fmt.Errorf("%w: 超时时间不能小于%v", ErrInvalidConfig, MinTimeout)
	}
	return nil
}

// IntervalMs 以毫秒返回探测间隔
func (c ProbeConfig) IntervalMs() int64 {
	return c.Interval.Milliseconds()
}

// TimeoutMs 以毫秒返回超时时间
func (c ProbeConfig) TimeoutMs() int64 {
	return c.Timeout.Milliseconds()
}

// OutcomeKind 探测结果的种类
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota // 成功收到回复
	OutcomeFailure                    // 失败（原因见FailureReason）
)

// FailureReason 探测失败的原因
type FailureReason int

const (
	ReasonNone               FailureReason = iota // 无（成功）
	ReasonNetworkUnreachable                      // 目标网络不可达
	ReasonHostUnreachable                         // 目标主机不可达
	ReasonTimedOut                                // 超时
	ReasonOther                                   // 其他错误（DNS、传输层错误等）
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNetworkUnreachable:
		return "network unreachable"
	case ReasonHostUnreachable:
		return "host unreachable"
	case ReasonTimedOut:
		return "timed out"
	case ReasonOther:
		return "other"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ProbeOutcome 单次探测的结果，创建后不可变
type ProbeOutcome struct {
	Kind      OutcomeKind
	LatencyMs int64         // 仅Success有效，非负
	Reason    FailureReason // 仅Failure有效
	At        time.Time     // 结果产生的时间
}

// Success 创建成功结果，负延迟按0处理
func Success(latencyMs int64) ProbeOutcome {
	if latencyMs < 0 {
		latencyMs = 0
	}
	return ProbeOutcome{Kind: OutcomeSuccess, LatencyMs: latencyMs}
}

// Failure 创建失败结果
func Failure(reason FailureReason) ProbeOutcome {
	if reason == ReasonNone {
		reason = ReasonOther
	}
	return ProbeOutcome{Kind: OutcomeFailure, Reason: reason}
}

// IsSuccess 是否为成功结果
func (o ProbeOutcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

func (o ProbeOutcome) String() string {
	if o.IsSuccess() {
		return fmt.Sprintf("%d ms", o.LatencyMs)
	}
	return o.Reason.String()
}

// RGB 颜色三元组
type RGB struct {
	R, G, B uint8
}

// Hex 返回 #rrggbb 形式的颜色字符串
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// VisualSignal 探测结果对应的可视信号
// Severity 为0表示无错误，大于0表示错误
type VisualSignal struct {
	Color    RGB
	Severity int
}

// IsError 是否为错误信号
func (s VisualSignal) IsError() bool {
	return s.Severity > 0
}

// GridCell 网格中的一个单元格
type GridCell struct {
	X, Y  int
	Color RGB
}

// GridState 网格缓冲区的一致性快照
type GridState struct {
	CursorX        int
	CursorY        int
	CapacityWidth  int
	CapacityHeight int
	CellWidth      int
	CellHeight     int
	Cells          []GridCell
}

// StatsSnapshot 统计数据的一致性快照
// HasAverage / HasLossRate 为 false 时表示"无数据"
type StatsSnapshot struct {
	Sent        int
	Lost        int
	Samples     []int64 // 成功探测的延迟样本(ms)，从旧到新
	Average     float64
	HasAverage  bool
	LossRate    float64 // 百分比
	HasLossRate bool
	Min         int64
	Max         int64
	StdDev      float64
}

// EngineState 调度器拥有的全部状态的快照
// 渲染层只读取该快照，从不直接修改引擎状态
type EngineState struct {
	Running        bool
	Generation     uint64
	Config         ProbeConfig
	Grid           GridState
	Stats          StatsSnapshot
	Last           ProbeOutcome
	HasLast        bool
	StaleDiscarded uint64 // 因代际失效而丢弃的结果数
}

// Prober 探测执行器接口
// 任何探测实现（ICMP、TCP等）都应该实现这个接口
type Prober interface {
	// Probe 对地址执行一次可达性检查
	// 实现者不应向上返回错误，所有传输层错误都应映射为Failure结果
	Probe(ctx context.Context, address string, timeout time.Duration) ProbeOutcome
}

// ProberFunc 函数适配器
type ProberFunc func(ctx context.Context, address string, timeout time.Duration) ProbeOutcome

// Probe 实现Prober接口
func (f ProberFunc) Probe(ctx context.Context, address string, timeout time.Duration) ProbeOutcome {
	return f(ctx, address, timeout)
}
