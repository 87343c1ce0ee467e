package config

import (
	"fmt"
	"time"
)

// ServerApp holds server-side application settings derived from the shared
// structured config.
type ServerApp struct {
	// LogLevel is the minimum level emitted by the server logger.
	LogLevel string
	// Version is the semantic version served by the version endpoint.
	Version string
}

// ServerHTTP holds listen address and timeout settings for the HTTP server.
type ServerHTTP struct {
	// Address is the TCP listen address in "host:port" format.
	Address string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
}

// ServerDB contains database connection settings for the server.
type ServerDB struct {
	// DSN is the PostgreSQL connection string.
	DSN string
}

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// App contains application-level server settings.
	App ServerApp
	// HTTP contains listen address and timeouts.
	HTTP ServerHTTP
	// DB contains the snapshot store connection settings.
	DB ServerDB
}

// GetServerConfig builds and validates a server-specific config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

// NewServerConfig maps an already merged [StructuredConfig] into the server
// view, fills defaults, and validates the result.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App: ServerApp{
			LogLevel: cfg.App.LogLevel,
			Version:  cfg.App.Version,
		},
		HTTP: ServerHTTP{
			Address:        cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		DB: ServerDB{
			DSN: cfg.Storage.DB.DSN,
		},
	}

	if serverCfg.HTTP.RequestTimeout <= 0 {
		serverCfg.HTTP.RequestTimeout = DefaultRequestTimeout
	}

	return serverCfg, serverCfg.validate()
}
