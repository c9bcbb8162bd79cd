// Package pinger 选项模式支持
package pinger

import (
	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// Option 配置选项函数类型
type Option func(*Config)

// WithIPVersion 设置IP版本
func WithIPVersion(version int) Option {
	return func(c *Config) {
		c.IPVersion = version
	}
}

// WithPayloadSize 设置回显数据长度
func WithPayloadSize(size int) Option {
	return func(c *Config) {
		c.PayloadSize = size
	}
}

// NewProberWithOptions 使用选项模式创建执行器
func NewProberWithOptions(opts ...Option) (core.Prober, error) {
	config := DefaultConfig()

	for _, opt := range opts {
		opt(config)
	}

	return NewProber(config)
}
