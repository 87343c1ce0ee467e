package config

import (
	"fmt"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

// Default values applied to sync knobs the user left unset. The DSN and
// server URL carry no defaults: both are required and validated.
const (
	DefaultBatchSize      = 50
	DefaultBaseDelay      = 1 * time.Second
	DefaultSyncInterval   = 5 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// LogLevel is the minimum level emitted by the client logger.
	LogLevel string
	// UserID is the identity the engine syncs as.
	UserID int64
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// ServerURL is the sync server base URL.
	ServerURL string
	// AuthToken is the opaque bearer token attached to outbound requests.
	AuthToken string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path holding the queue, watermarks, dead
	// letters, conflicts, and local records.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync holds the engine knobs used by the orchestrator and the retry
// scheduler.
type ClientSync struct {
	// BatchSize bounds queue items per network batch.
	BatchSize int
	// BaseDelay is the first retry delay; attempt n waits BaseDelay*2^(n-1).
	BaseDelay time.Duration
	// MaxAttempts is the default attempt budget for queued items.
	MaxAttempts int
	// Strategy is the default conflict strategy.
	Strategy models.Strategy
	// MergeFields is the allow-list preserved from local under merge.
	MergeFields []string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the periodic sync job runs.
	SyncInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains the engine knobs.
	Sync ClientSync
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, fills defaults for unset sync knobs, and
// validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps an already merged [StructuredConfig] into the client
// view. Split from [GetClientConfig] so tests can feed prepared configs
// without touching process flags or environment.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	strategy, err := models.ParseStrategy(cfg.Sync.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
			UserID:   cfg.App.UserID,
		},
		Adapter: ClientAdapter{
			ServerURL:      cfg.Adapter.ServerURL,
			AuthToken:      cfg.Adapter.AuthToken,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			BatchSize:   cfg.Sync.BatchSize,
			BaseDelay:   cfg.Sync.BaseDelay,
			MaxAttempts: cfg.Sync.MaxAttempts,
			Strategy:    strategy,
			MergeFields: cfg.Sync.MergeFields,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}

	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Sync.BatchSize <= 0 {
		cfg.Sync.BatchSize = DefaultBatchSize
	}
	if cfg.Sync.BaseDelay <= 0 {
		cfg.Sync.BaseDelay = DefaultBaseDelay
	}
	if cfg.Sync.MaxAttempts <= 0 {
		cfg.Sync.MaxAttempts = models.DefaultMaxAttempts
	}
	if cfg.Workers.SyncInterval <= 0 {
		cfg.Workers.SyncInterval = DefaultSyncInterval
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.App.UserID <= 0 {
		cfg.App.UserID = 1
	}
}
