package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// DefaultStopTimeout bounds how long stopping the sidecar may take when the
// caller does not configure a timeout.
const DefaultStopTimeout = 10 * time.Second

// termGracePeriod is how long the child gets to exit after SIGTERM before it
// is sent SIGKILL. It is capped at the stop budget.
const termGracePeriod = 3 * time.Second

// killDrainTimeout bounds the wait for an exit status once the child has
// been killed, or once signaling showed it was already gone.
const killDrainTimeout = 10 * time.Second

// stopPlan brings one child down in phases: terminate, escalate to SIGKILL
// after grace, stop waiting for a clean exit after budget, then allow drain
// for the exit status to arrive.
type stopPlan struct {
	name   string
	grace  time.Duration
	budget time.Duration
	drain  time.Duration
}

func newStopPlan(name string, timeout time.Duration) stopPlan {
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}
	return stopPlan{
		name:   name,
		grace:  min(termGracePeriod, timeout),
		budget: timeout,
		drain:  killDrainTimeout,
	}
}

// run stops proc. waitErr carries the result of the one cmd.Wait call made
// for proc; run consumes it.
func (p stopPlan) run(proc *os.Process, waitErr <-chan error) error {
	if proc == nil {
		return nil
	}
	if waitErr == nil {
		return fmt.Errorf("%s: wait channel must not be nil", p.name)
	}

	if err := terminate(proc); err != nil {
		// Signal delivery fails once the child has exited on its own.
		return p.settle(waitErr, "after failed signal")
	}

	escalate := time.AfterFunc(p.grace, func() {
		// os.ErrProcessDone after a clean exit is expected.
		_ = proc.Kill()
	})
	defer escalate.Stop()

	if ok, err := receive(waitErr, p.budget); ok {
		return p.classify(err)
	}

	_ = proc.Kill()
	if err := p.settle(waitErr, "after SIGKILL"); err != nil {
		return fmt.Errorf("%s stop timeout: %w", p.name, err)
	}
	return nil
}

// settle waits up to drain for the exit status and classifies it.
func (p stopPlan) settle(waitErr <-chan error, phase string) error {
	ok, err := receive(waitErr, p.drain)
	if !ok {
		return fmt.Errorf("%s: no exit status %s within %s", p.name, phase, p.drain)
	}
	return p.classify(err)
}

// classify maps a Wait result to nil when the child exited cleanly or died
// from the signals run sends. Anything else is wrapped with the child name.
func (p stopPlan) classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && terminatedBySignal(exitErr) {
		return nil
	}
	return fmt.Errorf("%s: %w", p.name, err)
}

// receive waits up to d for a value on ch. ok is false when d elapsed first.
func receive(ch <-chan error, d time.Duration) (ok bool, err error) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case err = <-ch:
		return true, err
	case <-t.C:
		return false, nil
	}
}
