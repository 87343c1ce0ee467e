package server

// Server is the lifecycle contract of a transport server.
//
// RunServer blocks until shutdown is requested; Shutdown drains in-flight
// work and releases the listener.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server.
	Shutdown()
}
