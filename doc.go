// Package lumo supervises the lumo-server sidecar on behalf of the desktop
// host application.
//
// The host calls OnStart when the application is ready and OnShutdown when it
// exits. In between, a Supervisor keeps at most one sidecar child alive,
// telling it where its database lives through LUMO_DB_PATH.
//
// # Basic Usage
//
//	import "github.com/lumo-app/lumo"
//
//	sup := lumo.NewSupervisor(
//	    lumo.WithDebugBuild(isDebugBuild),
//	    lumo.WithDevOverride(lumo.ParseDevOverride(os.Getenv(lumo.DevOverrideEnv))),
//	)
//	if err := sup.OnStart(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer sup.OnShutdown()
//
// OnStart never blocks on the sidecar: the spawn and the health wait run in
// the background, and failures there are only logged. OnShutdown returns once
// the child has been killed.
//
// # Spawn Policy
//
// By default the sidecar is spawned in release builds only; debug builds
// expect a server started by hand unless LUMO_USE_SIDECAR_IN_DEV=1. See
// SpawnPolicy for the alternatives.
package lumo
