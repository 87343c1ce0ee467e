package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

// deadLetterRepository is the SQLite-backed implementation of
// [DeadLetterRepository].
type deadLetterRepository struct {
	*DB
	logger *logger.Logger
}

// NewDeadLetterRepository constructs a [DeadLetterRepository] backed by the
// provided database connection and logger.
func NewDeadLetterRepository(db *DB, logger *logger.Logger) DeadLetterRepository {
	logger.Debug().Msg("creating dead-letter repository")
	return &deadLetterRepository{
		DB:     db,
		logger: logger,
	}
}

// Add persists dead-lettered items. Two or more items are written inside one
// transaction so a failed batch lands in the dead-letter store whole.
func (d *deadLetterRepository) Add(ctx context.Context, items ...models.DeadLetterItem) error {
	if len(items) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Add").
			Int("count", len(items)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, addDeadLetter)
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Add").
			Int("count", len(items)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, item := range items {
		log.Debug().
			Str("func", "deadLetterRepository.Add").
			Int("iteration", idx+1).
			Int("total", len(items)).
			Str("id", item.ID).
			Str("reason", string(item.Reason)).
			Msg("dead-lettering queue item")

		_, execErr := stmt.ExecContext(ctx,
			item.ID,
			item.UserID,
			item.EntityType,
			item.EntityID,
			item.Operation,
			item.Payload,
			item.Priority,
			item.Attempts,
			item.MaxAttempts,
			item.BatchID,
			item.LastError,
			item.Reason,
			item.DeadLetteredAt.UTC(),
			item.CreatedAt.UTC(),
			item.UpdatedAt.UTC(),
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "deadLetterRepository.Add").
				Int("iteration", idx+1).
				Str("id", item.ID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "deadLetterRepository.Add").
			Int("count", len(items)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Warn().
		Str("func", "deadLetterRepository.Add").
		Int("count", len(items)).
		Msg("items moved to dead-letter store")

	return nil
}

// Get returns a dead-letter item by id.
func (d *deadLetterRepository) Get(ctx context.Context, id string) (models.DeadLetterItem, error) {
	log := logger.FromContext(ctx)

	item, err := scanDeadLetterItem(d.DB.QueryRowContext(ctx, getDeadLetter, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeadLetterItem{}, ErrDeadLetterNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Get").
			Str("id", id).
			Msg("failed to scan dead-letter row")
		return models.DeadLetterItem{}, err
	}

	return item, nil
}

// List returns every dead-letter item for a user, newest first.
func (d *deadLetterRepository) List(ctx context.Context, userID int64) ([]models.DeadLetterItem, error) {
	log := logger.FromContext(ctx)

	rows, err := d.DB.QueryContext(ctx, listDeadLetters, userID)
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.List").
			Int64("user_id", userID).
			Msg("failed to query dead letters")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.DeadLetterItem
	for rows.Next() {
		item, scanErr := scanDeadLetterItem(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "deadLetterRepository.List").
				Int64("user_id", userID).
				Msg("failed to scan dead-letter row")
			return nil, scanErr
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "deadLetterRepository.List").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, nil
}

// Delete removes items by id, typically after a successful requeue.
func (d *deadLetterRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildDeleteDeadLettersQuery(ids)
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Delete").
			Int("count", len(ids)).
			Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := d.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Delete").
			Int("count", len(ids)).
			Msg("failed to delete dead-letter items")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Purge removes all dead-letter items for a user and reports how many rows
// were deleted.
func (d *deadLetterRepository) Purge(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := d.DB.ExecContext(ctx, purgeDeadLetters, userID)
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Purge").
			Int64("user_id", userID).
			Msg("failed to purge dead letters")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Purge").
			Int64("user_id", userID).
			Msg("failed to get rows affected")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Info().
		Str("func", "deadLetterRepository.Purge").
		Int64("user_id", userID).
		Int64("purged", affected).
		Msg("dead-letter store purged")

	return affected, nil
}

// Count reports the number of dead-letter items for a user.
func (d *deadLetterRepository) Count(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := d.DB.QueryRowContext(ctx, countDeadLetters, userID).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "deadLetterRepository.Count").
			Int64("user_id", userID).
			Msg("failed to count dead letters")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// scanDeadLetterItem reads one dead-letter row in [getDeadLetter] column
// order.
func scanDeadLetterItem(row interface{ Scan(dest ...any) error }) (models.DeadLetterItem, error) {
	var item models.DeadLetterItem

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.EntityType,
		&item.EntityID,
		&item.Operation,
		&item.Payload,
		&item.Priority,
		&item.Attempts,
		&item.MaxAttempts,
		&item.BatchID,
		&item.LastError,
		&item.Reason,
		&item.DeadLetteredAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeadLetterItem{}, err
		}
		return models.DeadLetterItem{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}
