// Package scheduler 选项模式支持
package scheduler

import (
	"log/slog"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/core"
	"github.com/Kevin-Rudy/visualping/pkg/grid"
	"github.com/Kevin-Rudy/visualping/pkg/telemetry"
)

// options 调度器的构造选项
type options struct {
	gridWidth  int
	gridHeight int
	cellWidth  int
	cellHeight int
	interval   time.Duration // 尚未启动时使用的默认间隔
	timeout    time.Duration // 尚未启动时使用的默认超时
	logger     *slog.Logger
	meters     *telemetry.Meters
	clock      func() time.Time
	onOutcome  OutcomeHook
}

// defaultOptions 返回默认选项
func defaultOptions() options {
	return options{
		gridWidth:  400, // 100x25个4像素单元格
		gridHeight: 100,
		cellWidth:  grid.DefaultCellSize,
		cellHeight: grid.DefaultCellSize,
		interval:   1000 * time.Millisecond,
		timeout:    1000 * time.Millisecond,
		logger:     slog.Default(),
		clock:      time.Now,
	}
}

// OutcomeHook 每个有效结果写入网格后在更新循环中被调用，不应阻塞
type OutcomeHook func(cfg core.ProbeConfig, outcome core.ProbeOutcome, signal core.VisualSignal)

// Option 调度器配置选项函数类型
type Option func(*options)

// WithGridCapacity 设置网格容量（像素）
func WithGridCapacity(width, height int) Option {
	return func(o *options) {
		o.gridWidth = width
		o.gridHeight = height
	}
}

// WithCellSize 设置单元格尺寸（像素）
func WithCellSize(width, height int) Option {
	return func(o *options) {
		o.cellWidth = width
		o.cellHeight = height
	}
}

// WithDefaults 设置未启动时展示的间隔与超时
func WithDefaults(interval, timeout time.Duration) Option {
	return func(o *options) {
		o.interval = interval
		o.timeout = timeout
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeters 设置指标仪表
func WithMeters(meters *telemetry.Meters) Option {
	return func(o *options) {
		o.meters = meters
	}
}

// WithClock 设置时间来源，用于结果时间戳
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithOutcomeHook 设置结果回调，过期结果不会触发回调
func WithOutcomeHook(hook OutcomeHook) Option {
	return func(o *options) {
		o.onOutcome = hook
	}
}
