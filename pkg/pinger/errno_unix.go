//go:build unix

package pinger

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// errnoReason 将套接字错误码映射为失败原因
func errnoReason(err error) core.FailureReason {
	switch {
	case errors.Is(err, unix.ENETUNREACH):
		return core.ReasonNetworkUnreachable
	case errors.Is(err, unix.EHOSTUNREACH):
		return core.ReasonHostUnreachable
	}
	return core.ReasonOther
}
