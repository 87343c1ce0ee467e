package store

import (
	"context"
	"fmt"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the service layer.
type ClientStorages struct {
	// QueueRepository is the durable outbound queue of pending mutations.
	QueueRepository QueueRepository

	// WatermarkRepository holds the per-entity-type sync cursors.
	WatermarkRepository WatermarkRepository

	// ConflictRepository is the inbox of divergences awaiting an explicit
	// user decision.
	ConflictRepository ConflictRepository

	// DeadLetterRepository keeps items removed from active retry.
	DeadLetterRepository DeadLetterRepository

	// LocalRecordRepository is the document store backing the generic
	// repository adapter.
	LocalRecordRepository LocalRecordRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.MigrateClient].
//  3. Constructs and returns a [ClientStorages] value with every repository
//     wired to the shared connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.MigrateClient(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		QueueRepository:       NewQueueRepository(db, logger),
		WatermarkRepository:   NewWatermarkRepository(db, logger),
		ConflictRepository:    NewConflictRepository(db, logger),
		DeadLetterRepository:  NewDeadLetterRepository(db, logger),
		LocalRecordRepository: NewLocalRecordRepository(db, logger),
	}, nil
}
