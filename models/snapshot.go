package models

import (
	"encoding/json"
	"time"
)

// EntitySnapshot is the serialized state of one entity as exchanged with
// the server and fed through conflict resolution. The engine never looks
// inside Payload except to compute content hashes and field merges.
type EntitySnapshot struct {
	// EntityType tags the repository the snapshot belongs to.
	EntityType string `json:"entity_type"`

	// EntityID identifies the entity within its type.
	EntityID string `json:"entity_id"`

	// UserID is the owner of the entity.
	UserID int64 `json:"user_id"`

	// Payload is the entity serialized by its repository's codec (JSON).
	Payload json.RawMessage `json:"payload"`

	// UpdatedAt is the entity-level modification time, written by whoever
	// produced the snapshot. Conflict strategies compare this field.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted marks a tombstone: the entity was removed and the delete
	// still has to propagate.
	Deleted bool `json:"deleted"`
}

// LocalRecord is one row of the client-side document store backing the
// generic repository adapter. Payload stays opaque to the store.
type LocalRecord struct {
	// UserID is the owner of the record.
	UserID int64 `json:"user_id"`

	// EntityType tags the repository the record belongs to.
	EntityType string `json:"entity_type"`

	// EntityID identifies the record within its type.
	EntityID string `json:"entity_id"`

	// Payload is the serialized entity.
	Payload json.RawMessage `json:"payload"`

	// UpdatedAt is the entity-level modification time.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted marks a local tombstone awaiting propagation.
	Deleted bool `json:"deleted"`

	// Dirty marks the record as modified since the last successful sync.
	// Applying a remote snapshot clears it; local mutations set it.
	Dirty bool `json:"dirty"`

	// CreatedAt is when the record first appeared locally.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the LocalRecord model.
func (r *LocalRecord) TableName() string {
	return "local_records"
}

// Snapshot converts the record into the wire/reconcile representation.
func (r *LocalRecord) Snapshot() EntitySnapshot {
	return EntitySnapshot{
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		UserID:     r.UserID,
		Payload:    r.Payload,
		UpdatedAt:  r.UpdatedAt,
		Deleted:    r.Deleted,
	}
}
