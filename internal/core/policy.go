package core

// DevOverrideValue is the only value of the developer override variable that
// enables spawning in debug builds.
const DevOverrideValue = "1"

// DecideSpawn reports whether the sidecar should be spawned: always in
// release builds, and in debug builds only with the developer override.
func DecideSpawn(isDebugBuild, devOverride bool) bool {
	return !isDebugBuild || devOverride
}

// ParseDevOverride interprets the raw value of the developer override
// variable. Anything but DevOverrideValue, including unset, is false.
func ParseDevOverride(raw string) bool {
	return raw == DevOverrideValue
}
