//go:build !windows

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// terminate asks p to exit with SIGTERM.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

// terminatedBySignal reports whether the child died from SIGTERM or SIGKILL.
func terminatedBySignal(exitErr *exec.ExitError) bool {
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return false
	}
	sig := status.Signal()
	return sig == syscall.SIGTERM || sig == syscall.SIGKILL
}
