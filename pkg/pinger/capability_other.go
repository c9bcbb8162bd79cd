//go:build !linux && !darwin && !windows

package pinger

import (
	"errors"
	"os"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// genericCapability 其他平台只支持raw socket
type genericCapability struct{}

func (g *genericCapability) hasPrivilegedAccess() bool {
	return os.Geteuid() == 0
}

func (g *genericCapability) createPrivilegedProber(config *Config) (core.Prober, error) {
	return newPrivilegedProber(config), nil
}

func (g *genericCapability) createUnprivilegedProber(config *Config) (core.Prober, error) {
	return nil, errors.New("当前平台需要root权限才能进行ping操作，请使用sudo运行")
}

func getPlatformCapability() platformCapability {
	return &genericCapability{}
}
