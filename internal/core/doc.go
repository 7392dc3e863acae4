// Package core implements the sidecar Supervisor behind the public lumo API.
//
// The Supervisor keeps at most one sidecar child in a mutex-guarded slot
// that is only ever replaced or taken. OnStart resolves the data directory
// (falling back under the home directory when the host cannot provide one),
// decides whether to spawn from the build mode and the developer override,
// and spawns in the background so the host reaches ready immediately.
// OnShutdown takes the child out of the slot and kills it before returning.
package core
