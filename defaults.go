package lumo

import "time"

// Default configuration values for NewSupervisor.
const (
	// DefaultSidecarName is the logical name of the sidecar executable.
	// Packaged builds ship it as lumo-server-<target-triple>.
	DefaultSidecarName = "lumo-server"

	// DefaultDBFileName is the database file inside the data directory.
	DefaultDBFileName = "lumo.db"

	// DefaultDBPathEnv carries the database path to the sidecar.
	DefaultDBPathEnv = "LUMO_DB_PATH"

	// DefaultFallbackDirName is the data directory used under the home
	// directory when the host cannot provide one.
	DefaultFallbackDirName = ".lumo"

	// DefaultAppIdentifier names the per-user application data directory.
	DefaultAppIdentifier = "app.lumo"

	// DevOverrideEnv is the environment variable that, set to "1", makes
	// debug builds spawn the sidecar.
	DevOverrideEnv = "LUMO_USE_SIDECAR_IN_DEV"

	// DefaultStopTimeout bounds killing the sidecar at shutdown.
	DefaultStopTimeout = 10 * time.Second

	// DefaultReadyTimeout bounds the health wait after spawning.
	DefaultReadyTimeout = 30 * time.Second

	// DefaultReadyInterval is the health poll interval.
	DefaultReadyInterval = 100 * time.Millisecond

	// DefaultSpawnPolicy spawns in release builds only.
	DefaultSpawnPolicy = SpawnUnlessDebug
)
