// Package fileutil prepares the directories the supervisor writes into and
// guards a data directory with an advisory file lock so that only one
// supervisor at a time owns the sidecar for it.
package fileutil
