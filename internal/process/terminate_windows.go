//go:build windows

package process

import (
	"os"
	"os/exec"
)

// terminate ends p. Windows cannot deliver SIGTERM to a child without a
// console, so the process is killed outright.
func terminate(p *os.Process) error {
	return p.Kill()
}

// terminatedBySignal reports whether exitErr is what terminate produces.
// TerminateProcess leaves exit code 1.
func terminatedBySignal(exitErr *exec.ExitError) bool {
	return exitErr.ExitCode() == 1
}
