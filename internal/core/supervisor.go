package core

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/lumo-app/lumo/internal/fileutil"
	"github.com/lumo-app/lumo/internal/process"
	"github.com/lumo-app/lumo/internal/sentinel"
)

// supervisorState is the lifecycle state of a Supervisor.
type supervisorState uint32

const (
	supervisorCreated      supervisorState = iota // zero value; NewSupervisor returns in this state
	supervisorStarted                             // OnStart has run
	supervisorShuttingDown                        // OnShutdown called
)

// ErrAlreadyStarted is returned by a second OnStart.
const ErrAlreadyStarted = sentinel.Error("supervisor already started")

// ErrShuttingDown is returned by OnStart after OnShutdown, and by Spawn when
// the child finished starting after shutdown began.
const ErrShuttingDown = sentinel.Error("supervisor is shutting down")

// ErrSidecarNotFound is re-exported from process so the public API imports
// only from core.
const ErrSidecarNotFound = process.ErrSidecarNotFound

// ErrDataDirLocked is re-exported from fileutil so the public API imports
// only from core.
const ErrDataDirLocked = fileutil.ErrDirLocked

// errNoChild reports a Spawner that returned neither a child nor an error.
const errNoChild = sentinel.Error("spawner returned no child")

// Dependencies are the host capabilities a Supervisor uses.
type Dependencies struct {
	// Spawner starts the sidecar. Required.
	Spawner process.Spawner
	// HostDataDir provides the data directory. Nil means
	// HostDataDir(cfg.AppIdentifier).
	HostDataDir DataDirFunc
	// ReinitLog moves the application log into the data directory. Optional.
	ReinitLog func(dataDir string) error
}

// Supervisor owns the lifecycle of one sidecar child tied to the host
// application's start and exit events. It is safe for concurrent use.
//
// Synchronization:
//   - slot guards the child handle on its own; Spawn and Shutdown only
//     touch it through replace, take and close.
//   - mu guards the lifecycle state, the computed SpawnConfig, the start
//     task's cancel/done pair and the data-dir lock.
//   - OnShutdown cancels the start task and waits for it before closing
//     the slot, so a child that finishes spawning late is still killed.
type Supervisor struct {
	cfg  SupervisorConfig
	deps Dependencies
	slot handleSlot

	mu       sync.Mutex
	state    supervisorState
	spawnCfg SpawnConfig
	cancel   context.CancelFunc
	done     chan struct{}
	lock     *fileutil.DirLock
}

// NewSupervisor creates a Supervisor. It performs no I/O.
//
// Panics if cfg is invalid or deps.Spawner is nil; both are programmer
// errors.
func NewSupervisor(cfg SupervisorConfig, deps Dependencies) *Supervisor {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("lumo: invalid supervisor config: %v", err))
	}
	if deps.Spawner == nil {
		panic("lumo: spawner must not be nil")
	}
	if deps.HostDataDir == nil {
		deps.HostDataDir = HostDataDir(cfg.AppIdentifier)
	}
	return &Supervisor{cfg: cfg, deps: deps}
}

// OnStart resolves the data directory, moves the application log there and,
// when the spawn policy allows, spawns the sidecar in the background. It
// returns without waiting for the spawn. Failures are logged, not returned;
// the only errors are ErrAlreadyStarted and ErrShuttingDown.
func (s *Supervisor) OnStart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case supervisorStarted:
		return ErrAlreadyStarted
	case supervisorShuttingDown:
		return ErrShuttingDown
	case supervisorCreated:
	}
	s.state = supervisorStarted

	dataDir := ResolveDataDir(s.deps.HostDataDir, s.cfg.FallbackDirName)
	if s.deps.ReinitLog != nil {
		if err := s.deps.ReinitLog(dataDir); err != nil {
			Logger().Warn("failed to move app log into data dir", "path", dataDir, "error", err)
		}
	}

	sc := s.cfg.NewSpawnConfig(dataDir)
	s.spawnCfg = sc
	Logger().Info("app data dir resolved", "path", sc.DataDir, "db_path", sc.DBPath)

	if !sc.ShouldSpawn {
		Logger().Info("skipping sidecar; using external server",
			"policy", s.cfg.Policy, "debug_build", s.cfg.DebugBuild)
		return nil
	}

	if s.cfg.LockDataDir {
		lock, err := fileutil.LockDir(dataDir)
		if err != nil {
			Logger().Error("not spawning server sidecar", "path", dataDir, "error", err)
			return nil
		}
		s.lock = lock
	}

	taskCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go func() {
		defer close(done)
		defer cancel()
		s.run(taskCtx, sc)
	}()
	return nil
}

// run is the start task: spawn, then wait for the child to answer health
// checks.
func (s *Supervisor) run(ctx context.Context, sc SpawnConfig) {
	child, err := s.spawn(ctx, sc)
	if err != nil {
		return
	}
	s.awaitReady(ctx, child)
}

// Spawn starts the sidecar with the database path in its environment and
// stores the handle. A spawn failure is logged at error level, leaves the
// handle empty and is returned for internal callers only.
func (s *Supervisor) Spawn(ctx context.Context, sc SpawnConfig) error {
	_, err := s.spawn(ctx, sc)
	return err
}

func (s *Supervisor) spawn(ctx context.Context, sc SpawnConfig) (process.Child, error) {
	child, err := s.deps.Spawner.Spawn(ctx, process.Request{
		Name:    s.cfg.SidecarName,
		DataDir: sc.DataDir,
		Env:     map[string]string{s.cfg.DBPathEnv: sc.DBPath},
	})
	if err == nil && child == nil {
		err = errNoChild
	}
	if err != nil {
		Logger().Error("failed to spawn server sidecar", "sidecar", s.cfg.SidecarName, "error", err)
		return nil, fmt.Errorf("spawn %s: %w", s.cfg.SidecarName, err)
	}

	prev, rejected := s.slot.replace(child)
	if rejected {
		Logger().Info("shutdown began during spawn, stopping server sidecar", "pid", child.PID())
		s.kill(child)
		return nil, ErrShuttingDown
	}
	if prev != nil {
		Logger().Warn("replacing supervised server sidecar", "old_pid", prev.PID(), "new_pid", child.PID())
		s.kill(prev)
	}

	Logger().Info("server sidecar spawned", "pid", child.PID(), "port", child.Port(), "db_path", sc.DBPath)
	return child, nil
}

// awaitReady polls the child's health endpoint. A child that never becomes
// ready stays supervised; the failure is only logged.
func (s *Supervisor) awaitReady(ctx context.Context, child process.Child) {
	port := child.Port()
	if s.cfg.ReadyTimeout <= 0 || port == 0 {
		return
	}

	url := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/health"
	err := process.WaitReady(ctx, process.WaitReadyConfig{
		Interval:      s.cfg.ReadyInterval,
		Timeout:       s.cfg.ReadyTimeout,
		Name:          s.cfg.SidecarName,
		Port:          port,
		Logger:        Logger(),
		ProcessExited: child.Exited(),
	}, process.HTTPHealthCheck(url, Logger()))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		Logger().Warn("server sidecar not ready", "url", url, "error", err)
		return
	}
	Logger().Info("server sidecar ready", "url", url)
}

// Shutdown takes the supervised child, if any, and kills it. Failures are
// logged and never returned. With nothing supervised it does nothing.
func (s *Supervisor) Shutdown() {
	s.kill(s.slot.take())
}

func (s *Supervisor) kill(child process.Child) {
	if child == nil {
		return
	}
	pid := child.PID()
	if err := child.Kill(); err != nil {
		Logger().Error("failed to kill server sidecar", "pid", pid, "error", err)
		return
	}
	Logger().Info("server sidecar stopped", "pid", pid)
}

// OnShutdown stops the start task, kills the supervised child and releases
// the data-dir lock. It returns once the child is gone. Later calls are
// no-ops.
func (s *Supervisor) OnShutdown() {
	s.mu.Lock()
	if s.state == supervisorShuttingDown {
		s.mu.Unlock()
		return
	}
	s.state = supervisorShuttingDown
	cancel, done, lock := s.cancel, s.done, s.lock
	s.lock = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.kill(s.slot.close())
	lock.Unlock(Logger())
}

// Running reports whether a child is currently supervised.
func (s *Supervisor) Running() bool {
	return s.slot.occupied()
}

// SpawnConfig returns the configuration computed by OnStart. ok is false
// before OnStart.
func (s *Supervisor) SpawnConfig() (sc SpawnConfig, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnCfg, s.state != supervisorCreated && s.spawnCfg.DataDir != ""
}

// startTask returns a channel closed when the background start task has
// finished, or nil when none was launched.
func (s *Supervisor) startTask() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
