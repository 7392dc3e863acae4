// Package server is the sidecar's HTTP surface: a health endpoint the host
// polls after spawning, and RPC-style item procedures under /rpc/item.
package server
