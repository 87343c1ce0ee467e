package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

// localRecordRepository is the SQLite-backed implementation of
// [LocalRecordRepository]. It treats payloads as opaque JSON.
type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRecordRepository constructs a [LocalRecordRepository] backed by the
// provided database connection and logger.
func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	logger.Debug().Msg("creating local record repository")
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

// Upsert writes a locally mutated record. The dirty flag is forced on so the
// next sync run picks the record up. Tombstones without a payload are stored
// with an empty object payload.
func (l *localRecordRepository) Upsert(ctx context.Context, record models.LocalRecord) error {
	log := logger.FromContext(ctx)

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := l.DB.ExecContext(ctx, upsertLocalRecord,
		record.UserID,
		record.EntityType,
		record.EntityID,
		coalescePayload(record.Payload),
		record.Deleted,
		createdAt.UTC(),
		record.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.Upsert").
			Int64("user_id", record.UserID).
			Str("entity_type", record.EntityType).
			Str("entity_id", record.EntityID).
			Msg("failed to upsert local record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Get returns one record by key.
func (l *localRecordRepository) Get(ctx context.Context, userID int64, entityType, entityID string) (models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	record, err := scanLocalRecord(l.DB.QueryRowContext(ctx, getLocalRecord, userID, entityType, entityID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LocalRecord{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.Get").
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("failed to scan local record row")
		return models.LocalRecord{}, err
	}

	return record, nil
}

// List returns every live record for a user and entity type.
func (l *localRecordRepository) List(ctx context.Context, userID int64, entityType string) ([]models.LocalRecord, error) {
	return l.queryRecords(ctx, "localRecordRepository.List", listLocalRecords, userID, entityType)
}

// ListDirty returns records modified since the last successful sync.
func (l *localRecordRepository) ListDirty(ctx context.Context, userID int64, entityType string) ([]models.LocalRecord, error) {
	return l.queryRecords(ctx, "localRecordRepository.ListDirty", listDirtyRecords, userID, entityType)
}

func (l *localRecordRepository) queryRecords(ctx context.Context, funcName, query string, userID int64, entityType string) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := l.DB.QueryContext(ctx, query, userID, entityType)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Msg("failed to query local records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.LocalRecord
	for rows.Next() {
		record, scanErr := scanLocalRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Int64("user_id", userID).
				Msg("failed to scan local record row")
			return nil, scanErr
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// MarkClean clears the dirty flag on the given entities after their queued
// mutations settled.
func (l *localRecordRepository) MarkClean(ctx context.Context, userID int64, entityType string, entityIDs []string) error {
	if len(entityIDs) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildMarkCleanQuery(userID, entityType, entityIDs)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.MarkClean").
			Int("count", len(entityIDs)).
			Msg("failed to build mark clean query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := l.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.MarkClean").
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Int("count", len(entityIDs)).
			Msg("failed to clear dirty flags")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ApplyRemote overwrites a record with a server snapshot and clears the dirty
// flag. Deletions are kept as tombstones so they are not re-created by a
// later upload.
func (l *localRecordRepository) ApplyRemote(ctx context.Context, snapshot models.EntitySnapshot) error {
	log := logger.FromContext(ctx)

	_, err := l.DB.ExecContext(ctx, applyRemoteRecord,
		snapshot.UserID,
		snapshot.EntityType,
		snapshot.EntityID,
		coalescePayload(snapshot.Payload),
		snapshot.Deleted,
		time.Now().UTC(),
		snapshot.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.ApplyRemote").
			Int64("user_id", snapshot.UserID).
			Str("entity_type", snapshot.EntityType).
			Str("entity_id", snapshot.EntityID).
			Msg("failed to apply remote snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// coalescePayload substitutes an empty object for absent payloads, matching
// the server-side tombstone handling.
func coalescePayload(payload []byte) []byte {
	if len(payload) == 0 {
		return []byte("{}")
	}
	return payload
}

// scanLocalRecord reads one local record row in [getLocalRecord] column order.
func scanLocalRecord(row interface{ Scan(dest ...any) error }) (models.LocalRecord, error) {
	var (
		record  models.LocalRecord
		payload []byte
	)

	err := row.Scan(
		&record.UserID,
		&record.EntityType,
		&record.EntityID,
		&payload,
		&record.Deleted,
		&record.Dirty,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocalRecord{}, err
		}
		return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record.Payload = payload

	return record, nil
}
