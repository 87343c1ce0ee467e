// Package client implements the demo sync client runtime.
//
// It wires the sync engine, its background workers, and OS signal handling
// into a single process lifecycle: an initial sync on startup, periodic
// syncs until a stop signal arrives, then a graceful engine close.
package client
