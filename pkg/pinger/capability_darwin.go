//go:build darwin

package pinger

import (
	"os"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// darwinCapability macOS平台能力实现
type darwinCapability struct{}

// hasPrivilegedAccess 检查macOS root权限
func (d *darwinCapability) hasPrivilegedAccess() bool {
	return os.Geteuid() == 0
}

// createPrivilegedProber 创建特权模式执行器（使用raw socket）
func (d *darwinCapability) createPrivilegedProber(config *Config) (core.Prober, error) {
	return newPrivilegedProber(config), nil
}

// createUnprivilegedProber macOS同样支持非特权的ICMP DGRAM socket
func (d *darwinCapability) createUnprivilegedProber(config *Config) (core.Prober, error) {
	return newDgramProber(config), nil
}

// getPlatformCapability 获取macOS平台的能力实现
func getPlatformCapability() platformCapability {
	return &darwinCapability{}
}
