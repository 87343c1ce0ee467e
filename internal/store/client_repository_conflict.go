package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

// conflictRepository is the SQLite-backed implementation of
// [ConflictRepository]. Snapshots are stored as their JSON encoding since the
// inbox never inspects them.
type conflictRepository struct {
	*DB
	logger *logger.Logger
}

// NewConflictRepository constructs a [ConflictRepository] backed by the
// provided database connection and logger.
func NewConflictRepository(db *DB, logger *logger.Logger) ConflictRepository {
	logger.Debug().Msg("creating conflict repository")
	return &conflictRepository{
		DB:     db,
		logger: logger,
	}
}

// Save stores a detected conflict, replacing any pending record for the same
// entity.
func (c *conflictRepository) Save(ctx context.Context, record models.ConflictRecord) error {
	log := logger.FromContext(ctx)

	localJSON, err := json.Marshal(record.Local)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Save").
			Str("entity_id", record.EntityID).
			Msg("failed to marshal local snapshot")
		return fmt.Errorf("failed to marshal local snapshot: %w", err)
	}

	remoteJSON, err := json.Marshal(record.Remote)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Save").
			Str("entity_id", record.EntityID).
			Msg("failed to marshal remote snapshot")
		return fmt.Errorf("failed to marshal remote snapshot: %w", err)
	}

	_, err = c.DB.ExecContext(ctx, saveConflict,
		record.ID,
		record.UserID,
		record.EntityType,
		record.EntityID,
		localJSON,
		remoteJSON,
		record.Strategy,
		record.DetectedAt.UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Save").
			Int64("user_id", record.UserID).
			Str("entity_type", record.EntityType).
			Str("entity_id", record.EntityID).
			Msg("failed to save conflict record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Info().
		Str("func", "conflictRepository.Save").
		Int64("user_id", record.UserID).
		Str("entity_type", record.EntityType).
		Str("entity_id", record.EntityID).
		Msg("conflict stored for explicit resolution")

	return nil
}

// Get returns a stored conflict by id.
func (c *conflictRepository) Get(ctx context.Context, id string) (models.ConflictRecord, error) {
	log := logger.FromContext(ctx)

	record, err := scanConflictRecord(c.DB.QueryRowContext(ctx, getConflict, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ConflictRecord{}, ErrConflictNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Get").
			Str("id", id).
			Msg("failed to scan conflict row")
		return models.ConflictRecord{}, err
	}

	return record, nil
}

// List returns every pending conflict for a user, oldest first.
func (c *conflictRepository) List(ctx context.Context, userID int64) ([]models.ConflictRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, listConflicts, userID)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.List").
			Int64("user_id", userID).
			Msg("failed to query conflicts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.ConflictRecord
	for rows.Next() {
		record, scanErr := scanConflictRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "conflictRepository.List").
				Int64("user_id", userID).
				Msg("failed to scan conflict row")
			return nil, scanErr
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "conflictRepository.List").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// Delete removes a resolved conflict from the inbox.
func (c *conflictRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := c.DB.ExecContext(ctx, deleteConflict, id)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Delete").
			Str("id", id).
			Msg("failed to delete conflict record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Delete").
			Str("id", id).
			Msg("failed to get rows affected")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrConflictNotFound
	}

	return nil
}

// Count reports the number of pending conflicts for a user.
func (c *conflictRepository) Count(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := c.DB.QueryRowContext(ctx, countConflicts, userID).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Count").
			Int64("user_id", userID).
			Msg("failed to count conflicts")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// scanConflictRecord reads one conflict row, decoding the snapshot columns
// back into their structured form.
func scanConflictRecord(row interface{ Scan(dest ...any) error }) (models.ConflictRecord, error) {
	var (
		record     models.ConflictRecord
		localJSON  []byte
		remoteJSON []byte
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.EntityType,
		&record.EntityID,
		&localJSON,
		&remoteJSON,
		&record.Strategy,
		&record.DetectedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConflictRecord{}, err
		}
		return models.ConflictRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := json.Unmarshal(localJSON, &record.Local); err != nil {
		return models.ConflictRecord{}, fmt.Errorf("failed to unmarshal local snapshot: %w", err)
	}
	if err := json.Unmarshal(remoteJSON, &record.Remote); err != nil {
		return models.ConflictRecord{}, fmt.Errorf("failed to unmarshal remote snapshot: %w", err)
	}

	return record, nil
}
