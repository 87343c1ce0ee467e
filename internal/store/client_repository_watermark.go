package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

// watermarkRepository is the SQLite-backed implementation of
// [WatermarkRepository].
type watermarkRepository struct {
	*DB
	logger *logger.Logger
}

// NewWatermarkRepository constructs a [WatermarkRepository] backed by the
// provided database connection and logger.
func NewWatermarkRepository(db *DB, logger *logger.Logger) WatermarkRepository {
	logger.Debug().Msg("creating watermark repository")
	return &watermarkRepository{
		DB:     db,
		logger: logger,
	}
}

// Get returns the stored cursor for one user and entity type. A missing row
// yields a zero cursor, never an error: the first sync of an entity type
// starts from the beginning of time.
func (w *watermarkRepository) Get(ctx context.Context, userID int64, entityType string) (models.Watermark, error) {
	log := logger.FromContext(ctx)

	var mark models.Watermark
	row := w.DB.QueryRowContext(ctx, getWatermark, userID, entityType)

	err := row.Scan(&mark.UserID, &mark.EntityType, &mark.LastSyncedAt, &mark.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Watermark{UserID: userID, EntityType: entityType}, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "watermarkRepository.Get").
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Msg("failed to scan watermark row")
		return models.Watermark{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return mark, nil
}

// Upsert writes the cursor, replacing any previous value for the key.
func (w *watermarkRepository) Upsert(ctx context.Context, watermark models.Watermark) error {
	log := logger.FromContext(ctx)

	_, err := w.DB.ExecContext(ctx, upsertWatermark,
		watermark.UserID,
		watermark.EntityType,
		watermark.LastSyncedAt.UTC(),
		watermark.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "watermarkRepository.Upsert").
			Int64("user_id", watermark.UserID).
			Str("entity_type", watermark.EntityType).
			Msg("failed to upsert watermark")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "watermarkRepository.Upsert").
		Int64("user_id", watermark.UserID).
		Str("entity_type", watermark.EntityType).
		Time("last_synced_at", watermark.LastSyncedAt).
		Msg("watermark advanced")

	return nil
}

// All returns every stored cursor for a user, ordered by entity type.
func (w *watermarkRepository) All(ctx context.Context, userID int64) ([]models.Watermark, error) {
	log := logger.FromContext(ctx)

	rows, err := w.DB.QueryContext(ctx, allWatermarks, userID)
	if err != nil {
		log.Err(err).
			Str("func", "watermarkRepository.All").
			Int64("user_id", userID).
			Msg("failed to query watermarks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var marks []models.Watermark
	for rows.Next() {
		var mark models.Watermark
		if scanErr := rows.Scan(&mark.UserID, &mark.EntityType, &mark.LastSyncedAt, &mark.UpdatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "watermarkRepository.All").
				Int64("user_id", userID).
				Msg("failed to scan watermark row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		marks = append(marks, mark)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "watermarkRepository.All").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return marks, nil
}
