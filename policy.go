package lumo

import "github.com/lumo-app/lumo/internal/core"

// SpawnPolicy decides whether OnStart spawns the sidecar.
//
// SpawnPolicy is a type alias so that the IsValid and String methods of
// [core.SpawnPolicy] are part of the public API.
type SpawnPolicy = core.SpawnPolicy

const (
	// SpawnUnlessDebug spawns in release builds, and in debug builds only
	// when the developer override is set. This is the default.
	SpawnUnlessDebug = core.SpawnUnlessDebug

	// SpawnAlways spawns regardless of build mode.
	SpawnAlways = core.SpawnAlways

	// SpawnNever never spawns; the host uses a server run separately.
	SpawnNever = core.SpawnNever
)

// ParseSpawnPolicy parses "unless-debug", "always" or "never". The empty
// string selects the default.
func ParseSpawnPolicy(s string) (SpawnPolicy, error) {
	return core.ParseSpawnPolicy(s)
}

// DecideSpawn reports whether a build should spawn the sidecar under
// SpawnUnlessDebug: always in release builds, in debug builds only with the
// developer override.
func DecideSpawn(isDebugBuild, devOverride bool) bool {
	return core.DecideSpawn(isDebugBuild, devOverride)
}

// ParseDevOverride interprets the value of DevOverrideEnv. Only "1" enables
// the override.
func ParseDevOverride(raw string) bool {
	return core.ParseDevOverride(raw)
}

// ResolveDataDir returns the directory hostDir provides, or a fallback under
// the home directory (or the current directory) when it fails. It never
// fails; a fallback is logged as a warning.
func ResolveDataDir(hostDir func() (string, error)) string {
	return core.ResolveDataDir(hostDir, DefaultFallbackDirName)
}

// HostDataDir returns a provider of the conventional per-user data
// directory for appID.
func HostDataDir(appID string) func() (string, error) {
	return core.HostDataDir(appID)
}
