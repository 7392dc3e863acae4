package lumo

import (
	"context"

	"github.com/lumo-app/lumo/internal/core"
)

// Supervisor ties the sidecar's lifetime to the host application's.
//
// Callers follow this ordering:
//
//	NewSupervisor → OnStart → OnShutdown
//
// OnShutdown is safe at any point, including before OnStart.
type Supervisor interface {
	// OnStart resolves the data directory and, when the spawn policy
	// allows, spawns the sidecar in the background. It does not wait for
	// the sidecar; spawn failures are logged, not returned.
	//
	// Returns ErrAlreadyStarted on a second call and ErrShuttingDown after
	// OnShutdown.
	OnStart(ctx context.Context) error

	// OnShutdown kills the sidecar, if any, and returns once it is gone.
	// A sidecar still being spawned is killed as soon as it starts. Kill
	// failures are logged. Later calls are no-ops.
	OnShutdown()

	// Running reports whether a sidecar is currently supervised.
	Running() bool

	// DataDir returns the data directory resolved by OnStart, or "" before.
	DataDir() string

	// DBPath returns the database path handed to the sidecar, or "" before
	// OnStart.
	DBPath() string
}

// Spawner starts sidecar processes. The default runs a local executable;
// tests and alternative hosts can supply their own with WithSpawner.
type Spawner = core.Spawner

// Child is a running sidecar as returned by a Spawner.
type Child = core.Child

// SpawnRequest describes one sidecar launch.
type SpawnRequest = core.SpawnRequest
