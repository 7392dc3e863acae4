package process

import (
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/lumo-app/lumo/internal/sentinel"
)

// ErrAlreadyStarted is returned by SetupAndStart when the process is running.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrNilCmd is returned when SetupAndStart is called with a nil *exec.Cmd.
const ErrNilCmd = sentinel.Error("cmd must not be nil")

// ErrEmptyCmdPath is returned when SetupAndStart is called with an empty cmd.Path.
const ErrEmptyCmdPath = sentinel.Error("cmd.Path must not be empty")

// ErrEmptyDataDir is returned when SetupAndStart is called without a data directory.
const ErrEmptyDataDir = sentinel.Error("data directory must not be empty")

// BaseProcess tracks one started command and its log files.
//
// BaseProcess is not safe for concurrent use; Sidecar serializes access to it.
type BaseProcess struct {
	cmd         *exec.Cmd
	waitDone    <-chan error    // cmd.Wait result, consumed once by Stop
	exited      <-chan struct{} // closed when the child exits
	logFiles    LogFiles
	name        string
	log         *slog.Logger
	stopTimeout time.Duration // used by Close when Stop was skipped; zero means DefaultStopTimeout
}

// NewBaseProcess returns an unstarted BaseProcess. A nil logger falls back to
// slog.Default(). Panics if name is empty.
func NewBaseProcess(name string, logger *slog.Logger, stopTimeout time.Duration) BaseProcess {
	if name == "" {
		panic("lumo: process name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return BaseProcess{name: name, log: logger, stopTimeout: stopTimeout}
}

// Stop terminates the process, waiting at most timeout plus the kill drain
// bound. Whatever the outcome, the process is considered stopped afterwards
// and IsStarted reports false. Stop on an unstarted process returns nil.
func (b *BaseProcess) Stop(timeout time.Duration) error {
	if b.cmd == nil || b.cmd.Process == nil {
		b.reset()
		return nil
	}
	pid := b.cmd.Process.Pid
	err := newStopPlan(b.name, timeout).run(b.cmd.Process, b.waitDone)
	if err != nil {
		b.log.Warn("process stop failed; process may be orphaned",
			"process", b.name, "pid", pid, "error", err)
	}
	b.reset()
	return err
}

func (b *BaseProcess) reset() {
	b.cmd = nil
	b.waitDone = nil
	b.exited = nil
}

// Close releases the log files. A process that is still running is stopped
// first with the configured stop timeout; failure to stop is logged only.
func (b *BaseProcess) Close() {
	if b.cmd != nil {
		b.log.Warn("process closed while running; stopping it", "process", b.name)
		timeout := b.stopTimeout
		if timeout <= 0 {
			timeout = DefaultStopTimeout
		}
		if err := b.Stop(timeout); err != nil {
			b.log.Warn("stop during close failed", "process", b.name, "error", err)
		}
	}
	b.logFiles.Close()
}

// Logger returns the logger used by this process.
func (b *BaseProcess) Logger() *slog.Logger {
	return b.log
}

// Name returns the process name used in logs and log file names.
func (b *BaseProcess) Name() string {
	return b.name
}

// Exited returns a channel closed when the child exits, or nil when the
// process is not running.
func (b *BaseProcess) Exited() <-chan struct{} {
	return b.exited
}

// IsStarted reports whether the process was started and not yet stopped.
func (b *BaseProcess) IsStarted() bool {
	return b.cmd != nil
}

// PID returns the child's process id, or 0 when not running.
func (b *BaseProcess) PID() int {
	if b.cmd == nil || b.cmd.Process == nil {
		return 0
	}
	return b.cmd.Process.Pid
}

// LogFiles returns the stdout/stderr log files of the current run.
func (b *BaseProcess) LogFiles() LogFiles {
	return b.logFiles
}

// SetupAndStart starts cmd with dataDir as its working directory and its
// output sent to <name>-stdout.log and <name>-stderr.log inside dataDir.
// The caller sets Path, Args and Env beforehand.
//
// Exactly one goroutine calls cmd.Wait; its result feeds Stop and the
// Exited channel.
func (b *BaseProcess) SetupAndStart(cmd *exec.Cmd, dataDir string) error {
	if cmd == nil {
		return ErrNilCmd
	}
	if cmd.Path == "" {
		return ErrEmptyCmdPath
	}
	if dataDir == "" {
		return ErrEmptyDataDir
	}
	if b.cmd != nil {
		return ErrAlreadyStarted
	}

	cmd.Dir = dataDir
	configureSysProcAttr(cmd)

	logFiles, err := StartCmd(cmd, dataDir, b.name)
	if err != nil {
		return fmt.Errorf("start command: %w", err)
	}
	b.cmd = cmd
	b.logFiles.Close()
	b.logFiles = logFiles

	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		done <- cmd.Wait()
		close(exited)
	}()
	b.waitDone = done
	b.exited = exited

	return nil
}
