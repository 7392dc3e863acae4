package lumo

import (
	"fmt"
	"time"

	"github.com/lumo-app/lumo/internal/core"
)

// supervisorConfig wraps core.SupervisorConfig with the settings that pick
// the Supervisor's dependencies.
type supervisorConfig struct {
	core.SupervisorConfig

	SidecarPath string
	SearchDirs  []string
	Spawner     Spawner
	HostDataDir func() (string, error)
	ReinitLog   func(dataDir string) error
}

func (c supervisorConfig) dependencies() core.Dependencies {
	sp := c.Spawner
	if sp == nil {
		sp = core.NewExecSpawner(c.SidecarPath, c.SearchDirs, c.StopTimeout)
	}
	return core.Dependencies{
		Spawner:     sp,
		HostDataDir: c.HostDataDir,
		ReinitLog:   c.ReinitLog,
	}
}

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("lumo: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("lumo: %s must not be empty", name))
	}
}

// Option configures a Supervisor during construction via NewSupervisor.
//
// Several With* functions panic on invalid input. Option values are
// normally constants, so an invalid one is a programmer error; the pattern
// mirrors [regexp.MustCompile].
type Option func(*supervisorConfig)

// WithSidecarName sets the logical name of the sidecar executable.
//
// Default: "lumo-server".
//
// Panics if name is empty.
func WithSidecarName(name string) Option {
	requireNonEmpty("sidecar name", name)
	return func(c *supervisorConfig) {
		c.SidecarName = name
	}
}

// WithSidecarPath runs the executable at path instead of looking the
// sidecar up by name. Ignored when WithSpawner is used.
//
// Panics if path is empty.
func WithSidecarPath(path string) Option {
	requireNonEmpty("sidecar path", path)
	return func(c *supervisorConfig) {
		c.SidecarPath = path
	}
}

// WithSearchDirs sets the directories searched for the sidecar executable,
// replacing the running executable's directory. PATH is searched last
// either way. Ignored when WithSpawner is used.
func WithSearchDirs(dirs ...string) Option {
	for _, d := range dirs {
		requireNonEmpty("search directory", d)
	}
	return func(c *supervisorConfig) {
		c.SearchDirs = append([]string(nil), dirs...)
	}
}

// WithSpawner replaces the default executable spawner.
//
// Panics if sp is nil.
func WithSpawner(sp Spawner) Option {
	if sp == nil {
		panic("lumo: spawner must not be nil")
	}
	return func(c *supervisorConfig) {
		c.Spawner = sp
	}
}

// WithDBFileName sets the database file name inside the data directory.
//
// Default: "lumo.db".
//
// Panics if name is empty.
func WithDBFileName(name string) Option {
	requireNonEmpty("database file name", name)
	return func(c *supervisorConfig) {
		c.DBFileName = name
	}
}

// WithDBPathEnv sets the environment variable that carries the database
// path to the sidecar.
//
// Default: "LUMO_DB_PATH".
//
// Panics if name is empty.
func WithDBPathEnv(name string) Option {
	requireNonEmpty("database path env var", name)
	return func(c *supervisorConfig) {
		c.DBPathEnv = name
	}
}

// WithSpawnPolicy sets when the sidecar is spawned.
//
// Default: SpawnUnlessDebug.
//
// Panics if p is not a known policy.
func WithSpawnPolicy(p SpawnPolicy) Option {
	if !p.IsValid() {
		panic(fmt.Sprintf("lumo: invalid spawn policy: %v", p))
	}
	return func(c *supervisorConfig) {
		c.Policy = p
	}
}

// WithDebugBuild tells the supervisor whether the host is a debug build.
func WithDebugBuild(debug bool) Option {
	return func(c *supervisorConfig) {
		c.DebugBuild = debug
	}
}

// WithDevOverride makes debug builds spawn the sidecar under
// SpawnUnlessDebug. Hosts usually pass ParseDevOverride(os.Getenv(DevOverrideEnv)).
func WithDevOverride(override bool) Option {
	return func(c *supervisorConfig) {
		c.DevOverride = override
	}
}

// WithStopTimeout bounds killing the sidecar at shutdown.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) Option {
	requirePositive("stop timeout", d)
	return func(c *supervisorConfig) {
		c.StopTimeout = d
	}
}

// WithReadyTimeout bounds the health wait after spawning. Zero disables the
// wait.
//
// Default: 30 seconds.
//
// Panics if d < 0.
func WithReadyTimeout(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Sprintf("lumo: ready timeout must not be negative, got %v", d))
	}
	return func(c *supervisorConfig) {
		c.ReadyTimeout = d
	}
}

// WithReadyInterval sets the health poll interval.
//
// Default: 100 milliseconds.
//
// Panics if d <= 0.
func WithReadyInterval(d time.Duration) Option {
	requirePositive("ready interval", d)
	return func(c *supervisorConfig) {
		c.ReadyInterval = d
	}
}

// WithAppIdentifier sets the per-user data directory name used when no
// data directory provider is configured.
//
// Default: "app.lumo".
//
// Panics if id is empty.
func WithAppIdentifier(id string) Option {
	requireNonEmpty("app identifier", id)
	return func(c *supervisorConfig) {
		c.AppIdentifier = id
	}
}

// WithFallbackDirName sets the directory used under the home directory when
// the data directory cannot be resolved.
//
// Default: ".lumo".
//
// Panics if name is empty.
func WithFallbackDirName(name string) Option {
	requireNonEmpty("fallback directory name", name)
	return func(c *supervisorConfig) {
		c.FallbackDirName = name
	}
}

// WithDataDir uses dir as the data directory instead of the per-user
// default.
//
// Panics if dir is empty.
func WithDataDir(dir string) Option {
	requireNonEmpty("data directory", dir)
	return func(c *supervisorConfig) {
		c.HostDataDir = func() (string, error) { return dir, nil }
	}
}

// WithDataDirFunc sets the host's data directory provider. When it fails,
// OnStart falls back under the home directory.
//
// Panics if fn is nil.
func WithDataDirFunc(fn func() (string, error)) Option {
	if fn == nil {
		panic("lumo: data directory func must not be nil")
	}
	return func(c *supervisorConfig) {
		c.HostDataDir = fn
	}
}

// WithDataDirLock holds an exclusive lock on the data directory while the
// sidecar is supervised. A second host over the same directory then logs
// ErrDataDirLocked and does not spawn.
func WithDataDirLock(enabled bool) Option {
	return func(c *supervisorConfig) {
		c.LockDataDir = enabled
	}
}

// WithLogReinit sets the hook OnStart calls with the resolved data
// directory, so the application log can move there.
//
// Panics if fn is nil.
func WithLogReinit(fn func(dataDir string) error) Option {
	if fn == nil {
		panic("lumo: log reinit func must not be nil")
	}
	return func(c *supervisorConfig) {
		c.ReinitLog = fn
	}
}
