package lumo

import "github.com/lumo-app/lumo/internal/core"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrAlreadyStarted is returned by a second OnStart.
	ErrAlreadyStarted = core.ErrAlreadyStarted

	// ErrShuttingDown is returned by OnStart after OnShutdown.
	ErrShuttingDown = core.ErrShuttingDown

	// ErrSidecarNotFound is reported when the sidecar executable cannot be
	// located. Spawn failures are only logged, so it reaches callers that
	// use the Spawner directly.
	ErrSidecarNotFound = core.ErrSidecarNotFound

	// ErrDataDirLocked is reported when another host already supervises a
	// sidecar over the same data directory.
	ErrDataDirLocked = core.ErrDataDirLocked
)
