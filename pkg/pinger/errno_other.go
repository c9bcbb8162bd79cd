//go:build !unix && !windows

package pinger

import "github.com/Kevin-Rudy/visualping/pkg/core"

func errnoReason(err error) core.FailureReason {
	return core.ReasonOther
}
