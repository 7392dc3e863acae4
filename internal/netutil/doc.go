// Package netutil hands out loopback ports for sidecar processes. A
// PortRegistry remembers which ports it has already given out so that two
// sidecars started close together never receive the same port from the
// kernel.
package netutil
