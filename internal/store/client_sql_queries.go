package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	enqueueItem = `
		INSERT INTO sync_queue (
			id,
			user_id,
			entity_type,
			entity_id,
			operation,
			payload,
			priority,
			attempts,
			max_attempts,
			batch_id,
			next_retry,
			last_error,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	updateItemAfterFailure = `
		UPDATE sync_queue SET
			attempts   = $1,
			next_retry = $2,
			last_error = $3,
			updated_at = $4
		WHERE id = $5;`

	countPendingItems = `
		SELECT COUNT(*)
		FROM sync_queue
		WHERE user_id = $1;`

	pendingEntityIDs = `
		SELECT DISTINCT entity_id
		FROM sync_queue
		WHERE user_id = $1 AND entity_type = $2;`

	getWatermark = `
		SELECT user_id, entity_type, last_synced_at, updated_at
		FROM sync_watermarks
		WHERE user_id = $1 AND entity_type = $2;`

	upsertWatermark = `
		INSERT INTO sync_watermarks (user_id, entity_type, last_synced_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, entity_type) DO UPDATE SET
			last_synced_at = excluded.last_synced_at,
			updated_at     = excluded.updated_at;`

	allWatermarks = `
		SELECT user_id, entity_type, last_synced_at, updated_at
		FROM sync_watermarks
		WHERE user_id = $1
		ORDER BY entity_type;`

	saveConflict = `
		INSERT INTO sync_conflicts (
			id,
			user_id,
			entity_type,
			entity_id,
			local_snapshot,
			remote_snapshot,
			strategy,
			detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE SET
			id              = excluded.id,
			local_snapshot  = excluded.local_snapshot,
			remote_snapshot = excluded.remote_snapshot,
			strategy        = excluded.strategy,
			detected_at     = excluded.detected_at;`

	getConflict = `
		SELECT id, user_id, entity_type, entity_id, local_snapshot, remote_snapshot, strategy, detected_at
		FROM sync_conflicts
		WHERE id = $1;`

	listConflicts = `
		SELECT id, user_id, entity_type, entity_id, local_snapshot, remote_snapshot, strategy, detected_at
		FROM sync_conflicts
		WHERE user_id = $1
		ORDER BY detected_at ASC, id ASC;`

	deleteConflict = `
		DELETE FROM sync_conflicts
		WHERE id = $1;`

	countConflicts = `
		SELECT COUNT(*)
		FROM sync_conflicts
		WHERE user_id = $1;`

	addDeadLetter = `
		INSERT INTO sync_dead_letters (
			id,
			user_id,
			entity_type,
			entity_id,
			operation,
			payload,
			priority,
			attempts,
			max_attempts,
			batch_id,
			last_error,
			reason,
			dead_lettered_at,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

	getDeadLetter = `
		SELECT id, user_id, entity_type, entity_id, operation, payload, priority,
		       attempts, max_attempts, batch_id, last_error, reason, dead_lettered_at,
		       created_at, updated_at
		FROM sync_dead_letters
		WHERE id = $1;`

	listDeadLetters = `
		SELECT id, user_id, entity_type, entity_id, operation, payload, priority,
		       attempts, max_attempts, batch_id, last_error, reason, dead_lettered_at,
		       created_at, updated_at
		FROM sync_dead_letters
		WHERE user_id = $1
		ORDER BY dead_lettered_at DESC, id ASC;`

	purgeDeadLetters = `
		DELETE FROM sync_dead_letters
		WHERE user_id = $1;`

	countDeadLetters = `
		SELECT COUNT(*)
		FROM sync_dead_letters
		WHERE user_id = $1;`

	upsertLocalRecord = `
		INSERT INTO local_records (
			user_id,
			entity_type,
			entity_id,
			payload,
			deleted,
			dirty,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
		ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE SET
			payload    = excluded.payload,
			deleted    = excluded.deleted,
			dirty      = 1,
			updated_at = excluded.updated_at;`

	applyRemoteRecord = `
		INSERT INTO local_records (
			user_id,
			entity_type,
			entity_id,
			payload,
			deleted,
			dirty,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
		ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE SET
			payload    = excluded.payload,
			deleted    = excluded.deleted,
			dirty      = 0,
			updated_at = excluded.updated_at;`

	getLocalRecord = `
		SELECT user_id, entity_type, entity_id, payload, deleted, dirty, created_at, updated_at
		FROM local_records
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3;`

	listLocalRecords = `
		SELECT user_id, entity_type, entity_id, payload, deleted, dirty, created_at, updated_at
		FROM local_records
		WHERE user_id = $1 AND entity_type = $2 AND deleted = 0
		ORDER BY entity_id;`

	listDirtyRecords = `
		SELECT user_id, entity_type, entity_id, payload, deleted, dirty, created_at, updated_at
		FROM local_records
		WHERE user_id = $1 AND entity_type = $2 AND dirty = 1
		ORDER BY updated_at ASC, entity_id ASC;`
)

// queueColumns is the canonical column order shared by every sync_queue
// SELECT, matching the scan order in scanQueueItems.
var queueColumns = []string{
	"id",
	"user_id",
	"entity_type",
	"entity_id",
	"operation",
	"payload",
	"priority",
	"attempts",
	"max_attempts",
	"batch_id",
	"next_retry",
	"last_error",
	"created_at",
	"updated_at",
}

// buildDequeueQuery dynamically builds the eligibility SELECT for one dequeue
// page. The entity type filter is added only when requested, and a
// non-positive limit means no LIMIT clause.
func buildDequeueQuery(userID int64, entityType string, now time.Time, limit int) (string, []any, error) {
	builder := sq.Select(queueColumns...).
		From("sync_queue").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.LtOrEq{"next_retry": now}).
		Where(sq.Expr("attempts < max_attempts")).
		OrderBy("priority DESC", "created_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if entityType != "" {
		builder = builder.Where(sq.Eq{"entity_type": entityType})
	}

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return builder.ToSql()
}

// buildBatchSiblingsQuery selects the queue items belonging to the given
// batch groups, excluding ids the caller already holds. Keeping groups whole
// is what guarantees atomic batches are never split across pages. Group keys
// are caller-supplied strings, so the query is scoped to the dequeuing user
// (and entity type) like the page itself, and exhausted items stay gated.
func buildBatchSiblingsQuery(userID int64, entityType string, batchIDs, excludeIDs []string) (string, []any, error) {
	builder := sq.Select(queueColumns...).
		From("sync_queue").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"batch_id": batchIDs}).
		Where(sq.Expr("attempts < max_attempts")).
		OrderBy("priority DESC", "created_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if entityType != "" {
		builder = builder.Where(sq.Eq{"entity_type": entityType})
	}

	if len(excludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeIDs})
	}

	return builder.ToSql()
}

// buildRemoveItemsQuery deletes settled queue items by id.
func buildRemoveItemsQuery(ids []string) (string, []any, error) {
	return sq.Delete("sync_queue").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// buildDeleteDeadLettersQuery deletes dead-letter items by id.
func buildDeleteDeadLettersQuery(ids []string) (string, []any, error) {
	return sq.Delete("sync_dead_letters").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// buildMarkCleanQuery clears the dirty flag for the given entities.
func buildMarkCleanQuery(userID int64, entityType string, entityIDs []string) (string, []any, error) {
	return sq.Update("local_records").
		Set("dirty", 0).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"entity_type": entityType}).
		Where(sq.Eq{"entity_id": entityIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
