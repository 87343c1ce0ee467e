package client

// Client is the minimal lifecycle contract of a runnable client application.
type Client interface {
	// Run starts the client and blocks until a stop signal arrives.
	Run() error
}
