// Package applog owns the host application's log file.
//
// The log starts early in a per-OS fallback location so that failures before
// the data directory is known are still recorded, then moves into
// <dataDir>/logs once the supervisor has resolved it. Loggers handed out
// before the move keep working; only the file underneath them changes.
package applog
