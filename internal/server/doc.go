// Package server runs the reference sync server's HTTP transport.
//
// It owns the process lifecycle: binding the listener, trapping OS stop
// signals, and draining in-flight requests on shutdown.
package server
