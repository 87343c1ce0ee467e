package models

import "time"

// DefaultMaxAttempts is the number of delivery attempts a queue item gets
// before it is dead-lettered.
const DefaultMaxAttempts = 5

// SyncQueueItem is a single pending mutation awaiting upload to the server.
// Items are persisted so that pending work survives process restarts.
type SyncQueueItem struct {
	// ID is the unique identifier of the queue item (UUID).
	ID string `json:"id"`

	// UserID is the owner of the mutation.
	UserID int64 `json:"user_id"`

	// EntityType tags which registered repository the mutation belongs to
	// (e.g. "climb", "session").
	EntityType string `json:"entity_type"`

	// EntityID identifies the mutated entity within its type.
	EntityID string `json:"entity_id"`

	// Operation is the kind of mutation to replay on the server.
	Operation Operation `json:"operation"`

	// Payload is the serialized entity snapshot at enqueue time.
	// The queue treats it as opaque bytes.
	Payload []byte `json:"payload"`

	// Priority orders the queue: higher values upload sooner.
	// Items with equal priority upload in creation order.
	Priority int `json:"priority"`

	// BatchID optionally groups causally related items. All items sharing
	// a BatchID are uploaded atomically and re-queued together on failure.
	BatchID string `json:"batch_id,omitempty"`

	// Attempts counts failed upload attempts so far. Starts at zero and
	// never exceeds MaxAttempts while the item is in the active queue.
	Attempts int `json:"attempts"`

	// MaxAttempts bounds the retries before the item is dead-lettered.
	MaxAttempts int `json:"max_attempts"`

	// NextRetry is the earliest time the item becomes eligible for
	// dequeue again. Monotonically non-decreasing across retries.
	NextRetry time.Time `json:"next_retry"`

	// LastError holds the message of the most recent failure, if any.
	LastError string `json:"last_error,omitempty"`

	// CreatedAt is the enqueue timestamp. Breaks priority ties (FIFO).
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last queue-state change.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the SyncQueueItem model.
func (i *SyncQueueItem) TableName() string {
	return "sync_queue"
}

// Watermark records the last timestamp through which an entity type has
// been successfully synced for a user. It only advances after a fully
// successful download and reconcile pass.
type Watermark struct {
	// UserID is the owner of the sync cursor.
	UserID int64 `json:"user_id"`

	// EntityType is the repository the cursor belongs to.
	EntityType string `json:"entity_type"`

	// LastSyncedAt is the server-reported time of the last complete sync.
	LastSyncedAt time.Time `json:"last_synced_at"`

	// UpdatedAt is when this cursor row was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Watermark model.
func (w *Watermark) TableName() string {
	return "sync_watermarks"
}
