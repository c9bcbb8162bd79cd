//go:build windows

package pinger

import (
	"errors"

	"golang.org/x/sys/windows"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

const (
	wsaENetUnreach  = windows.Errno(10051)
	wsaEHostUnreach = windows.Errno(10065)
)

// errnoReason 将Winsock错误码映射为失败原因
func errnoReason(err error) core.FailureReason {
	switch {
	case errors.Is(err, wsaENetUnreach):
		return core.ReasonNetworkUnreachable
	case errors.Is(err, wsaEHostUnreach):
		return core.ReasonHostUnreachable
	}
	return core.ReasonOther
}
