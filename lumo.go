package lumo

import (
	"context"

	"github.com/lumo-app/lumo/internal/core"
)

var _ Supervisor = (*supervisorWrapper)(nil)

// supervisorWrapper keeps *core.Supervisor in a named field so callers
// cannot type-assert their way to Spawn and Shutdown, which are not part of
// the public lifecycle.
type supervisorWrapper struct {
	sup *core.Supervisor
}

func (w *supervisorWrapper) OnStart(ctx context.Context) error { return w.sup.OnStart(ctx) }
func (w *supervisorWrapper) OnShutdown()                       { w.sup.OnShutdown() }
func (w *supervisorWrapper) Running() bool                     { return w.sup.Running() }

func (w *supervisorWrapper) DataDir() string {
	sc, _ := w.sup.SpawnConfig()
	return sc.DataDir
}

func (w *supervisorWrapper) DBPath() string {
	sc, _ := w.sup.SpawnConfig()
	return sc.DBPath
}

// defaultSupervisorConfig returns a supervisorConfig populated with all
// default values. NewSupervisor and the test helpers both start from it.
func defaultSupervisorConfig() supervisorConfig {
	return supervisorConfig{
		SupervisorConfig: core.SupervisorConfig{
			SidecarName:     DefaultSidecarName,
			DBFileName:      DefaultDBFileName,
			DBPathEnv:       DefaultDBPathEnv,
			FallbackDirName: DefaultFallbackDirName,
			AppIdentifier:   DefaultAppIdentifier,
			Policy:          DefaultSpawnPolicy,
			StopTimeout:     DefaultStopTimeout,
			ReadyTimeout:    DefaultReadyTimeout,
			ReadyInterval:   DefaultReadyInterval,
		},
	}
}

// NewSupervisor returns a Supervisor configured by opts. It performs no I/O;
// call OnStart when the host is ready.
//
// Each host process should create one Supervisor. Two supervisors over the
// same data directory can be kept apart with WithDataDirLock.
//
// Panics if any option receives an invalid value.
//
//nolint:ireturn // Returns Supervisor interface so hosts can fake it.
func NewSupervisor(opts ...Option) Supervisor {
	cfg := defaultSupervisorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &supervisorWrapper{sup: core.NewSupervisor(cfg.SupervisorConfig, cfg.dependencies())}
}
