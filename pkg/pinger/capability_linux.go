//go:build linux

package pinger

import (
	"net"
	"os"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// linuxCapability Linux平台能力实现
type linuxCapability struct{}

// hasPrivilegedAccess 检查Linux权限（CAP_NET_RAW或root）
func (l *linuxCapability) hasPrivilegedAccess() bool {
	return checkLinuxCapNetRaw()
}

// createPrivilegedProber 创建特权模式执行器（使用raw socket）
func (l *linuxCapability) createPrivilegedProber(config *Config) (core.Prober, error) {
	return newPrivilegedProber(config), nil
}

// createUnprivilegedProber 创建Linux DGRAM执行器
// 需要net.ipv4.ping_group_range包含当前用户组
func (l *linuxCapability) createUnprivilegedProber(config *Config) (core.Prober, error) {
	return newDgramProber(config), nil
}

// checkLinuxCapNetRaw 检查Linux系统的CAP_NET_RAW权限或root权限
func checkLinuxCapNetRaw() bool {
	if os.Geteuid() == 0 {
		return true
	}

	// 尝试创建原始套接字来检测CAP_NET_RAW权限
	conn, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// getPlatformCapability 获取Linux平台的能力实现
func getPlatformCapability() platformCapability {
	return &linuxCapability{}
}
