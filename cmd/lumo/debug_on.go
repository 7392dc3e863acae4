//go:build debug

package main

// isDebugBuild is set by building with -tags debug.
const isDebugBuild = true
