package lumo

import "time"

// ConfigSnapshot holds a copy of supervisorConfig fields for test
// assertions from package lumo_test.
type ConfigSnapshot struct {
	SidecarName     string
	SidecarPath     string
	SearchDirs      []string
	HasSpawner      bool
	DBFileName      string
	DBPathEnv       string
	FallbackDirName string
	AppIdentifier   string
	Policy          SpawnPolicy
	DebugBuild      bool
	DevOverride     bool
	StopTimeout     time.Duration
	ReadyTimeout    time.Duration
	ReadyInterval   time.Duration
	LockDataDir     bool
	HasHostDataDir  bool
	HasReinitLog    bool
}

// ApplyOptionsForTesting applies opts to the default config and returns a
// snapshot of the result without building a Supervisor.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultSupervisorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return ConfigSnapshot{
		SidecarName:     cfg.SidecarName,
		SidecarPath:     cfg.SidecarPath,
		SearchDirs:      cfg.SearchDirs,
		HasSpawner:      cfg.Spawner != nil,
		DBFileName:      cfg.DBFileName,
		DBPathEnv:       cfg.DBPathEnv,
		FallbackDirName: cfg.FallbackDirName,
		AppIdentifier:   cfg.AppIdentifier,
		Policy:          cfg.Policy,
		DebugBuild:      cfg.DebugBuild,
		DevOverride:     cfg.DevOverride,
		StopTimeout:     cfg.StopTimeout,
		ReadyTimeout:    cfg.ReadyTimeout,
		ReadyInterval:   cfg.ReadyInterval,
		LockDataDir:     cfg.LockDataDir,
		HasHostDataDir:  cfg.HostDataDir != nil,
		HasReinitLog:    cfg.ReinitLog != nil,
	}
}
