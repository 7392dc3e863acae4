package core

import (
	"time"

	"github.com/lumo-app/lumo/internal/netutil"
	"github.com/lumo-app/lumo/internal/process"
)

// Spawner, Child and SpawnRequest are re-exported from process so the public
// API imports only from core.
type (
	Spawner      = process.Spawner
	Child        = process.Child
	SpawnRequest = process.Request
)

// NewExecSpawner returns a Spawner that runs the sidecar as a local
// executable with its own port. path overrides the lookup by name;
// searchDirs overrides where the lookup looks.
func NewExecSpawner(path string, searchDirs []string, stopTimeout time.Duration) Spawner {
	return &process.ExecSpawner{
		Path:        path,
		SearchDirs:  searchDirs,
		StopTimeout: stopTimeout,
		Ports:       netutil.NewPortRegistry(Logger()),
		Logger:      Logger(),
	}
}
