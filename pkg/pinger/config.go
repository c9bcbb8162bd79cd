// Package pinger 配置定义
package pinger

import (
	"errors"
	"fmt"
	"net"
)

// Config 探测执行器的配置结构
type Config struct {
	IPVersion   int // IP版本，4或6
	PayloadSize int // 回显请求携带的数据长度（字节）
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		IPVersion:   4,  // 默认IPv4
		PayloadSize: 32, // 与Windows ping默认值一致
	}
}

// GetIPProtocol 获取IP协议字符串，用于地址解析
func (c *Config) GetIPProtocol() string {
	if c.IPVersion == 6 {
		return "ip6"
	}
	return "ip4"
}

// ResolveTarget 将目标解析为当前IP版本的地址
func (c *Config) ResolveTarget(target string) (*net.IPAddr, error) {
	if target == "" {
		return nil, errors.New("目标地址不能为空")
	}
	dst, err := net.ResolveIPAddr(c.GetIPProtocol(), target)
	if err != nil {
		return nil, fmt.Errorf("无法将 '%s' 解析为IPv%d地址: %w", target, c.IPVersion, err)
	}
	return dst, nil
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.IPVersion != 4 && c.IPVersion != 6 {
		return errors.New("IP版本必须是4或6")
	}

	if c.PayloadSize < 0 {
		return errors.New("数据长度不能为负数")
	}

	if c.PayloadSize > 65500 {
		return errors.New("数据长度不能超过65500字节")
	}

	return nil
}

// payload 生成指定长度的回显数据
func (c *Config) payload() []byte {
	data := make([]byte, c.PayloadSize)
	for i := range data {
		data[i] = 'a' + byte(i%23)
	}
	return data
}
