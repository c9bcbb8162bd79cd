//go:build unix

package pinger

import (
	"fmt"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

func TestErrnoReason(t *testing.T) {
	wrap := func(errno error) error {
		return &net.OpError{Op: "write", Net: "ip4:icmp", Err: os.NewSyscallError("sendto", errno)}
	}

	tests := []struct {
		err  error
		want core.FailureReason
	}{
		{wrap(unix.ENETUNREACH), core.ReasonNetworkUnreachable},
		{wrap(unix.EHOSTUNREACH), core.ReasonHostUnreachable},
		{wrap(unix.EPERM), core.ReasonOther},
		{fmt.Errorf("other: %w", unix.ENETUNREACH), core.ReasonNetworkUnreachable},
	}

	for _, tt := range tests {
		if got := errnoReason(tt.err); got != tt.want {
			t.Errorf("errnoReason(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
