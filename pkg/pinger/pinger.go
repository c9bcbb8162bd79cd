// Package pinger 实现了core.Prober接口，提供单次ICMP回显探测
// 根据操作系统和用户权限自动选择最合适的底层实现
package pinger

import (
	"errors"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// seqCounter 进程内共享的序列号，允许多个探测同时在途
var seqCounter atomic.Uint32

// nextSeq 返回下一个16位序列号
func nextSeq() int {
	return int(seqCounter.Add(1) & 0xffff)
}

// echoID 回显请求的标识符
func echoID() int {
	return os.Getpid() & 0xffff
}

// NewProber 创建新的探测执行器
func NewProber(config *Config) (core.Prober, error) {
	if config == nil {
		return nil, errors.New("配置不能为空")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 获取当前平台的能力实现
	platform := getPlatformCapability()

	// 优先尝试特权模式（所有平台统一用raw socket）
	if platform.hasPrivilegedAccess() {
		return platform.createPrivilegedProber(config)
	}

	// 降级到非特权模式（各平台不同的实现）
	return platform.createUnprivilegedProber(config)
}

// SystemInfo 当前平台的探测能力描述
type SystemInfo struct {
	OSName          string
	Privileged      bool
	PrivilegeStatus string
	Implementation  string
}

// osNames 常见平台的显示名称
var osNames = map[string]string{
	"windows": "Windows",
	"linux":   "Linux",
	"darwin":  "macOS",
}

// Describe 根据平台和权限推断NewProber会选择的实现
func Describe(goos string, privileged bool) SystemInfo {
	info := SystemInfo{OSName: goos, Privileged: privileged}
	if name, ok := osNames[goos]; ok {
		info.OSName = name
	}

	switch {
	case privileged:
		info.PrivilegeStatus = "特权模式 (Raw Socket)"
		info.Implementation = info.OSName + " Raw Socket"
	case goos == "windows":
		info.PrivilegeStatus = "普通用户模式 (Windows API)"
		info.Implementation = "IcmpSendEcho (仅IPv4)"
	case goos == "linux" || goos == "darwin":
		info.PrivilegeStatus = "非特权模式 (DGRAM Socket)"
		info.Implementation = info.OSName + " DGRAM Socket"
	default:
		info.PrivilegeStatus = "权限不足"
		info.Implementation = "无可用实现 (需要提权)"
	}
	return info
}

// GetSystemInfo 获取当前进程的探测能力描述
func GetSystemInfo() SystemInfo {
	return Describe(runtime.GOOS, HasPrivilegedAccess())
}

// HasPrivilegedAccess 检查是否有特权访问能力
func HasPrivilegedAccess() bool {
	return getPlatformCapability().hasPrivilegedAccess()
}
