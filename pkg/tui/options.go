// Package tui 选项模式支持
package tui

import (
	"log/slog"
	"time"
)

// Option TUI配置选项函数类型
type Option func(*Config)

// WithRefreshInterval 设置UI刷新间隔
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.RefreshInterval = interval
	}
}

// WithStatusTTL 设置状态提示的显示时长
func WithStatusTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.StatusTTL = ttl
	}
}

// WithCellSize 设置网格单元尺寸，需与调度器一致
func WithCellSize(width, height int) Option {
	return func(c *Config) {
		c.CellWidth = width
		c.CellHeight = height
	}
}

// WithSessionsDir 设置导出目录
func WithSessionsDir(dir string) Option {
	return func(c *Config) {
		c.SessionsDir = dir
	}
}

// WithSettingsPath 设置保存设置使用的文件
func WithSettingsPath(path string) Option {
	return func(c *Config) {
		c.SettingsPath = path
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// NewConfigWithOptions 使用选项模式创建TUI配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	for _, opt := range opts {
		opt(config)
	}

	return config
}
