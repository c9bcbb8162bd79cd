// Package pinger - 平台能力接口定义
// 定义了跨平台的权限检测和探测执行器创建接口
package pinger

import (
	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// platformCapability 定义平台能力接口
// 每个平台实现此接口来提供权限检测和执行器创建功能
type platformCapability interface {
	// hasPrivilegedAccess 检查是否有特权访问能力
	// Windows: 检查管理员权限
	// Linux: 检查CAP_NET_RAW或root权限
	// macOS: 检查root权限
	hasPrivilegedAccess() bool

	// createPrivilegedProber 创建特权模式执行器
	// 所有平台统一使用raw socket实现
	createPrivilegedProber(config *Config) (core.Prober, error)

	// createUnprivilegedProber 创建非特权模式执行器
	// Windows: 使用Windows ICMP API
	// Linux/macOS: 使用DGRAM socket
	createUnprivilegedProber(config *Config) (core.Prober, error)
}
