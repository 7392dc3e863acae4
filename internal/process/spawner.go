package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/lumo-app/lumo/internal/fileutil"
	"github.com/lumo-app/lumo/internal/netutil"
)

// PortEnv is the environment variable carrying the listen port to the sidecar.
const PortEnv = "PORT"

// Request describes one sidecar launch.
type Request struct {
	// Name is the sidecar's logical name, e.g. "lumo-server".
	Name string
	// DataDir is the child's working directory and where its output logs go.
	DataDir string
	// Env is added to the inherited environment of the child.
	Env map[string]string
}

func (r Request) validate() error {
	if r.Name == "" {
		return errors.New("sidecar name must not be empty")
	}
	if r.DataDir == "" {
		return ErrEmptyDataDir
	}
	return nil
}

// environ renders Env as KEY=VALUE pairs in key order.
func (r Request) environ() []string {
	keys := make([]string, 0, len(r.Env))
	for k := range r.Env {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+r.Env[k])
	}
	return env
}

// Child is a running sidecar as seen by the supervisor.
type Child interface {
	// PID returns the OS process id, or 0 once the child has been killed.
	PID() int
	// Port returns the port the child was told to listen on, or 0 if none.
	Port() int
	// Exited is closed when the child exits; nil once killed.
	Exited() <-chan struct{}
	// Kill terminates the child. Calling it again is a no-op.
	Kill() error
}

// Spawner is the process-spawning capability the host hands to the
// supervisor.
type Spawner interface {
	Spawn(ctx context.Context, req Request) (Child, error)
}

var (
	_ Spawner = (*ExecSpawner)(nil)
	_ Child   = (*Sidecar)(nil)
)

// ExecSpawner starts sidecars as local executables.
type ExecSpawner struct {
	// Path, when set, is used instead of looking the sidecar up by name.
	Path string
	// SearchDirs overrides the directories Locate searches.
	SearchDirs []string
	// StopTimeout bounds Kill. Zero means DefaultStopTimeout.
	StopTimeout time.Duration
	// Ports hands out the sidecar's listen port. When nil the child gets no
	// PORT and chooses its own.
	Ports *netutil.PortRegistry
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Spawn locates the executable, prepares the data directory and starts the
// child. The child's lifetime is not tied to ctx; only Kill ends it.
func (s *ExecSpawner) Spawn(ctx context.Context, req Request) (Child, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid spawn request: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bin, err := Locate(req.Name, s.Path, s.SearchDirs)
	if err != nil {
		return nil, err
	}
	if err := fileutil.EnsureDir(req.DataDir); err != nil {
		return nil, err
	}

	stopTimeout := s.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	sc := &Sidecar{
		base:        NewBaseProcess(req.Name, s.Logger, stopTimeout),
		stopTimeout: stopTimeout,
	}

	env := append(os.Environ(), req.environ()...)
	if s.Ports != nil {
		port, err := s.Ports.AllocatePort()
		if err != nil {
			return nil, fmt.Errorf("allocate %s port: %w", req.Name, err)
		}
		sc.port = port
		sc.release = func() { s.Ports.Release(port) }
		env = append(env, PortEnv+"="+strconv.Itoa(port))
	}

	cmd := exec.Command(bin)
	cmd.Env = env
	if err := sc.base.SetupAndStart(cmd, req.DataDir); err != nil {
		sc.releasePort()
		return nil, fmt.Errorf("start %s: %w", req.Name, err)
	}

	sc.base.Logger().Debug("sidecar process started",
		"process", req.Name, "path", bin, "pid", sc.base.PID(), "port", sc.port)
	return sc, nil
}

// Sidecar is a Child backed by a local process. Its methods are safe for
// concurrent use.
type Sidecar struct {
	mu          sync.Mutex
	base        BaseProcess
	port        int
	release     func()
	stopTimeout time.Duration
}

// PID implements Child.
func (s *Sidecar) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.PID()
}

// Port implements Child.
func (s *Sidecar) Port() int {
	return s.port
}

// Exited implements Child.
func (s *Sidecar) Exited() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Exited()
}

// LogFiles returns the child's output log files.
func (s *Sidecar) LogFiles() LogFiles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.LogFiles()
}

// Kill stops the child, closes its log files and returns its port to the
// registry. The port is returned even when the stop fails.
func (s *Sidecar) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.base.Stop(s.stopTimeout)
	s.base.Close()
	s.releasePort()
	return err
}

func (s *Sidecar) releasePort() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}
