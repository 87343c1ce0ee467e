package store

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// QueueRepository is the durable outbound queue. Items survive process
// restarts and leave the queue only after a settled upload outcome.
type QueueRepository interface {
	// Enqueue persists one or more pending mutations.
	Enqueue(ctx context.Context, items ...models.SyncQueueItem) error

	// DequeueBatch returns up to limit items eligible at now (next_retry has
	// passed), ordered by priority descending, then enqueue time, then id.
	// Items sharing a batch_id are returned together even if that overflows
	// the limit; an atomic group is never split. An empty entityType selects
	// across all entity types.
	DequeueBatch(ctx context.Context, userID int64, entityType string, now time.Time, limit int) ([]models.SyncQueueItem, error)

	// UpdateAfterFailure writes back attempts, next_retry and last_error for
	// items whose upload failed transiently.
	UpdateAfterFailure(ctx context.Context, items ...models.SyncQueueItem) error

	// Remove deletes settled items from the queue.
	Remove(ctx context.Context, ids ...string) error

	// CountPending reports the number of queued items for a user.
	CountPending(ctx context.Context, userID int64) (int, error)

	// PendingEntityIDs lists the entity ids currently queued for one user
	// and entity type, letting callers avoid double-queueing an entity.
	PendingEntityIDs(ctx context.Context, userID int64, entityType string) ([]string, error)
}

// WatermarkRepository stores per-(user, entity type) sync cursors.
type WatermarkRepository interface {
	// Get returns the stored cursor. A missing row yields a zero cursor with
	// the key fields filled in, not an error: an absent watermark simply
	// means the entity type has never completed a sync.
	Get(ctx context.Context, userID int64, entityType string) (models.Watermark, error)

	// Upsert writes the cursor, inserting or replacing the row.
	Upsert(ctx context.Context, watermark models.Watermark) error

	// All returns every stored cursor for a user.
	All(ctx context.Context, userID int64) ([]models.Watermark, error)
}

// ConflictRepository is the conflict inbox holding divergences awaiting an
// explicit user decision.
type ConflictRepository interface {
	// Save stores a detected conflict. Re-detecting a conflict for the same
	// entity replaces the previous record.
	Save(ctx context.Context, record models.ConflictRecord) error

	// Get returns a stored conflict by id.
	Get(ctx context.Context, id string) (models.ConflictRecord, error)

	// List returns every pending conflict for a user.
	List(ctx context.Context, userID int64) ([]models.ConflictRecord, error)

	// Delete removes a resolved conflict from the inbox.
	Delete(ctx context.Context, id string) error

	// Count reports the number of pending conflicts for a user.
	Count(ctx context.Context, userID int64) (int, error)
}

// DeadLetterRepository stores items removed from active retry.
type DeadLetterRepository interface {
	// Add persists dead-lettered items.
	Add(ctx context.Context, items ...models.DeadLetterItem) error

	// Get returns a dead-letter item by id.
	Get(ctx context.Context, id string) (models.DeadLetterItem, error)

	// List returns every dead-letter item for a user, newest first.
	List(ctx context.Context, userID int64) ([]models.DeadLetterItem, error)

	// Delete removes items, typically after a successful requeue.
	Delete(ctx context.Context, ids ...string) error

	// Purge removes all dead-letter items for a user and reports how many
	// rows were deleted.
	Purge(ctx context.Context, userID int64) (int64, error)

	// Count reports the number of dead-letter items for a user.
	Count(ctx context.Context, userID int64) (int, error)
}

// LocalRecordRepository is the client-side document store backing the
// generic repository adapter.
type LocalRecordRepository interface {
	// Upsert writes a locally mutated record and marks it dirty.
	Upsert(ctx context.Context, record models.LocalRecord) error

	// Get returns one record by key.
	Get(ctx context.Context, userID int64, entityType, entityID string) (models.LocalRecord, error)

	// List returns every live (non-tombstone) record for a user and type.
	List(ctx context.Context, userID int64, entityType string) ([]models.LocalRecord, error)

	// ListDirty returns records modified since the last successful sync.
	ListDirty(ctx context.Context, userID int64, entityType string) ([]models.LocalRecord, error)

	// MarkClean clears the dirty flag on the given entities.
	MarkClean(ctx context.Context, userID int64, entityType string, entityIDs []string) error

	// ApplyRemote overwrites a record with a server snapshot and clears the
	// dirty flag. Tombstones are kept with deleted set.
	ApplyRemote(ctx context.Context, snapshot models.EntitySnapshot) error
}
