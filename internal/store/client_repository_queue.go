package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

// queueRepository is the SQLite-backed implementation of [QueueRepository].
//
// All timestamps are normalised to UTC before they are written so that the
// driver's string encoding of TIMESTAMP columns compares chronologically.
type queueRepository struct {
	*DB
	logger *logger.Logger
}

// NewQueueRepository constructs a [QueueRepository] backed by the provided
// database connection and logger.
func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	logger.Debug().Msg("creating sync queue repository")
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

// Enqueue persists pending mutations. A single item is inserted directly;
// two or more items are inserted inside one transaction with a prepared
// statement, so a multi-item enqueue (an atomic group) is all-or-nothing.
func (q *queueRepository) Enqueue(ctx context.Context, items ...models.SyncQueueItem) error {
	if len(items) == 0 {
		return nil
	}

	if len(items) == 1 {
		return q.enqueueSingle(ctx, items[0])
	}

	return q.enqueueMultiple(ctx, items)
}

func (q *queueRepository) enqueueSingle(ctx context.Context, item models.SyncQueueItem) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, enqueueItem, enqueueArgs(item)...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Enqueue").
			Int64("user_id", item.UserID).
			Str("entity_type", item.EntityType).
			Str("entity_id", item.EntityID).
			Msg("failed to insert queue item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (q *queueRepository) enqueueMultiple(ctx context.Context, items []models.SyncQueueItem) error {
	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Enqueue").
			Int("count", len(items)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, enqueueItem)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Enqueue").
			Int("count", len(items)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, item := range items {
		log.Debug().
			Str("func", "queueRepository.Enqueue").
			Int("iteration", idx+1).
			Int("total", len(items)).
			Str("entity_id", item.EntityID).
			Msg("inserting queue item in transaction")

		if _, execErr := stmt.ExecContext(ctx, enqueueArgs(item)...); execErr != nil {
			log.Err(execErr).
				Str("func", "queueRepository.Enqueue").
				Int("iteration", idx+1).
				Str("entity_id", item.EntityID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "queueRepository.Enqueue").
			Int("count", len(items)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// enqueueArgs flattens a queue item into the argument list expected by
// [enqueueItem], normalising all timestamps to UTC.
func enqueueArgs(item models.SyncQueueItem) []any {
	return []any{
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
		item.NextRetry.UTC(),
		item.LastError,
		item.CreatedAt.UTC(),
		item.UpdatedAt.UTC(),
	}
}

// DequeueBatch selects up to limit eligible items and then widens the page so
// that every batch group touched by the page is included whole. The merged
// result is re-sorted into dequeue order.
func (q *queueRepository) DequeueBatch(ctx context.Context, userID int64, entityType string, now time.Time, limit int) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDequeueQuery(userID, entityType, now.UTC(), limit)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DequeueBatch").
			Int64("user_id", userID).
			Msg("failed to build dequeue query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DequeueBatch").
			Int64("user_id", userID).
			Msg("failed to execute dequeue query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items, err := scanQueueItems(rows)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DequeueBatch").
			Int64("user_id", userID).
			Msg("failed to scan dequeue page")
		return nil, err
	}

	items, err = q.completeBatchGroups(ctx, userID, entityType, items)
	if err != nil {
		return nil, err
	}

	sortQueueItems(items)

	log.Debug().
		Str("func", "queueRepository.DequeueBatch").
		Int64("user_id", userID).
		Str("entity_type", entityType).
		Int("count", len(items)).
		Msg("dequeued eligible items")

	return items, nil
}

// completeBatchGroups appends the queue items that share a batch_id with the
// page but were cut off by the LIMIT clause. The lookup stays scoped to the
// dequeuing user and entity type: batch ids are not unique across users.
func (q *queueRepository) completeBatchGroups(ctx context.Context, userID int64, entityType string, page []models.SyncQueueItem) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	var batchIDs []string
	seen := make(map[string]struct{})
	pageIDs := make([]string, 0, len(page))

	for _, item := range page {
		pageIDs = append(pageIDs, item.ID)
		if item.BatchID == "" {
			continue
		}
		if _, ok := seen[item.BatchID]; ok {
			continue
		}
		seen[item.BatchID] = struct{}{}
		batchIDs = append(batchIDs, item.BatchID)
	}

	if len(batchIDs) == 0 {
		return page, nil
	}

	query, args, err := buildBatchSiblingsQuery(userID, entityType, batchIDs, pageIDs)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DequeueBatch").
			Int("batch_count", len(batchIDs)).
			Msg("failed to build batch siblings query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DequeueBatch").
			Int("batch_count", len(batchIDs)).
			Msg("failed to execute batch siblings query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	siblings, err := scanQueueItems(rows)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DequeueBatch").
			Int("batch_count", len(batchIDs)).
			Msg("failed to scan batch siblings")
		return nil, err
	}

	return append(page, siblings...), nil
}

// UpdateAfterFailure writes back retry bookkeeping for failed items inside a
// single transaction.
func (q *queueRepository) UpdateAfterFailure(ctx context.Context, items ...models.SyncQueueItem) error {
	if len(items) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.UpdateAfterFailure").
			Int("count", len(items)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, updateItemAfterFailure)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.UpdateAfterFailure").
			Int("count", len(items)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, item := range items {
		result, execErr := stmt.ExecContext(ctx,
			item.Attempts,
			item.NextRetry.UTC(),
			item.LastError,
			item.UpdatedAt.UTC(),
			item.ID,
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "queueRepository.UpdateAfterFailure").
				Int("iteration", idx+1).
				Str("id", item.ID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		affected, raErr := result.RowsAffected()
		if raErr != nil {
			log.Err(raErr).
				Str("func", "queueRepository.UpdateAfterFailure").
				Str("id", item.ID).
				Msg("failed to get rows affected")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, raErr)
		}
		if affected == 0 {
			log.Warn().
				Str("func", "queueRepository.UpdateAfterFailure").
				Str("id", item.ID).
				Msg("no rows affected: queue item not found")
			return fmt.Errorf("failed to update queue item %s: %w", item.ID, ErrQueueItemNotFound)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "queueRepository.UpdateAfterFailure").
			Int("count", len(items)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// Remove deletes settled items by id.
func (q *queueRepository) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildRemoveItemsQuery(ids)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Remove").
			Int("count", len(ids)).
			Msg("failed to build remove query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := q.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Remove").
			Int("count", len(ids)).
			Msg("failed to delete queue items")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// CountPending reports the number of queued items for a user.
func (q *queueRepository) CountPending(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := q.DB.QueryRowContext(ctx, countPendingItems, userID).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "queueRepository.CountPending").
			Int64("user_id", userID).
			Msg("failed to count pending items")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// PendingEntityIDs lists the distinct entity ids queued for one user and
// entity type.
func (q *queueRepository) PendingEntityIDs(ctx context.Context, userID int64, entityType string) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := q.DB.QueryContext(ctx, pendingEntityIDs, userID, entityType)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.PendingEntityIDs").
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Msg("failed to query pending entity ids")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.PendingEntityIDs").
				Int64("user_id", userID).
				Msg("failed to scan entity id")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		ids = append(ids, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "queueRepository.PendingEntityIDs").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return ids, nil
}

// scanQueueItems drains rows into queue items using the [queueColumns] order.
func scanQueueItems(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.SyncQueueItem, error) {
	var items []models.SyncQueueItem

	for rows.Next() {
		var item models.SyncQueueItem

		scanErr := rows.Scan(
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
			&item.NextRetry,
			&item.LastError,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, nil
}

// sortQueueItems restores dequeue order after batch-group widening: priority
// descending, then enqueue time, then id.
func sortQueueItems(items []models.SyncQueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
