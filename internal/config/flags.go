package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN (SQLite path on the client, PostgreSQL URI on the server)
//	-c/-config json file path with configs
//	-server-url sync server base URL used by the client transport
//	-auth-token opaque bearer token attached to client requests
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval periodic sync job interval (e.g., "5m")
//	-batch-size maximum queue items per network batch
//	-base-delay first retry delay (doubles per attempt)
//	-max-attempts attempt budget before dead-lettering
//	-strategy default conflict strategy name
//	-merge-fields comma-separated payload fields kept local under merge
//	-user-id identity the client syncs as
//	-log-level minimum log level
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var serverURL string
	var authToken string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var batchSize int
	var baseDelay time.Duration
	var maxAttempts int
	var strategy string
	var mergeFields string
	var userID int64
	var logLevel string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&serverURL, "server-url", "", "Sync server base URL")
	flag.StringVar(&authToken, "auth-token", "", "Bearer token for the sync server")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 5m)")
	flag.IntVar(&batchSize, "batch-size", 0, "Maximum queue items per network batch")
	flag.DurationVar(&baseDelay, "base-delay", 0, "First retry delay (e.g., 1s)")
	flag.IntVar(&maxAttempts, "max-attempts", 0, "Attempts before dead-lettering")
	flag.StringVar(&strategy, "strategy", "", "Default conflict strategy")
	flag.StringVar(&mergeFields, "merge-fields", "", "Comma-separated merge allow-list")
	flag.Int64Var(&userID, "user-id", 0, "Identity the client syncs as")
	flag.StringVar(&logLevel, "log-level", "", "Minimum log level")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			LogLevel: logLevel,
			UserID:   userID,
		},
		Sync: Sync{
			BatchSize:   batchSize,
			BaseDelay:   baseDelay,
			MaxAttempts: maxAttempts,
			Strategy:    strategy,
			MergeFields: splitMergeFields(mergeFields),
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			ServerURL:      serverURL,
			AuthToken:      authToken,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval: syncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

func splitMergeFields(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
