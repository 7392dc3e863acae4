package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SpawnPolicy decides whether OnStart launches the sidecar at all.
type SpawnPolicy int

const (
	// SpawnUnlessDebug spawns in release builds, and in debug builds only
	// when the developer override is set. This is the default.
	SpawnUnlessDebug SpawnPolicy = iota

	// SpawnAlways spawns regardless of build mode.
	SpawnAlways

	// SpawnNever never spawns; the host talks to an externally run server.
	SpawnNever
)

// IsValid reports whether p is a known policy.
func (p SpawnPolicy) IsValid() bool {
	switch p {
	case SpawnUnlessDebug, SpawnAlways, SpawnNever:
		return true
	default:
		return false
	}
}

// String returns the policy's config spelling.
func (p SpawnPolicy) String() string {
	switch p {
	case SpawnUnlessDebug:
		return "unless-debug"
	case SpawnAlways:
		return "always"
	case SpawnNever:
		return "never"
	default:
		return fmt.Sprintf("SpawnPolicy(%d)", int(p))
	}
}

// ParseSpawnPolicy parses the String form of a policy, case-insensitively.
// The empty string selects SpawnUnlessDebug.
func ParseSpawnPolicy(s string) (SpawnPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unless-debug":
		return SpawnUnlessDebug, nil
	case "always":
		return SpawnAlways, nil
	case "never":
		return SpawnNever, nil
	default:
		return 0, fmt.Errorf("unknown spawn policy %q (want unless-debug, always or never)", s)
	}
}

// SupervisorConfig is the immutable configuration of a Supervisor.
type SupervisorConfig struct {
	// SidecarName is the logical name of the sidecar executable.
	SidecarName string
	// DBFileName is the database file created beneath the data directory.
	DBFileName string
	// DBPathEnv names the environment variable carrying the database path.
	DBPathEnv string
	// FallbackDirName is used under $HOME (or ".") when the host cannot
	// provide a data directory.
	FallbackDirName string
	// AppIdentifier names the per-application directory HostDataDir returns.
	AppIdentifier string

	Policy SpawnPolicy
	// DebugBuild reports whether the host was built in debug mode.
	DebugBuild bool
	// DevOverride forces spawning in debug builds under SpawnUnlessDebug.
	DevOverride bool

	// StopTimeout bounds killing the sidecar at shutdown.
	StopTimeout time.Duration
	// ReadyTimeout bounds the post-spawn health wait. Zero disables it.
	ReadyTimeout time.Duration
	// ReadyInterval is the health poll interval.
	ReadyInterval time.Duration

	// LockDataDir holds an exclusive lock on the data directory while the
	// sidecar is supervised.
	LockDataDir bool
}

// Validate reports every invalid field at once.
func (c SupervisorConfig) Validate() error {
	var errs []error

	if c.SidecarName == "" {
		errs = append(errs, errors.New("sidecar name must not be empty"))
	}
	if c.DBFileName == "" {
		errs = append(errs, errors.New("database file name must not be empty"))
	} else if filepath.Base(c.DBFileName) != c.DBFileName {
		errs = append(errs, fmt.Errorf("database file name must be a bare file name, got %q", c.DBFileName))
	}
	if c.DBPathEnv == "" {
		errs = append(errs, errors.New("database path env var must not be empty"))
	}
	if c.FallbackDirName == "" {
		errs = append(errs, errors.New("fallback directory name must not be empty"))
	}
	if c.AppIdentifier == "" {
		errs = append(errs, errors.New("app identifier must not be empty"))
	}
	if !c.Policy.IsValid() {
		errs = append(errs, fmt.Errorf("invalid spawn policy: %v", c.Policy))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stop timeout must be greater than 0, got %s", c.StopTimeout))
	}
	if c.ReadyTimeout < 0 {
		errs = append(errs, fmt.Errorf("ready timeout must not be negative, got %s", c.ReadyTimeout))
	}
	if c.ReadyTimeout > 0 && c.ReadyInterval <= 0 {
		errs = append(errs, fmt.Errorf("ready interval must be greater than 0, got %s", c.ReadyInterval))
	}

	return errors.Join(errs...)
}

// SpawnConfig is computed once by OnStart and never changes afterwards.
type SpawnConfig struct {
	DataDir     string
	DBPath      string
	ShouldSpawn bool
}

// NewSpawnConfig derives the spawn configuration for dataDir.
func (c SupervisorConfig) NewSpawnConfig(dataDir string) SpawnConfig {
	return SpawnConfig{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, c.DBFileName),
		ShouldSpawn: c.shouldSpawn(),
	}
}

func (c SupervisorConfig) shouldSpawn() bool {
	switch c.Policy {
	case SpawnAlways:
		return true
	case SpawnNever:
		return false
	default:
		return DecideSpawn(c.DebugBuild, c.DevOverride)
	}
}
