package models

import (
	"encoding/json"
	"time"
)

// UploadItem is one queued mutation inside a batch upload request.
type UploadItem struct {
	// ItemID is the originating queue item's identifier, echoed back in
	// outcomes so the client can settle the right row.
	ItemID string `json:"item_id"`

	// EntityID identifies the mutated entity.
	EntityID string `json:"entity_id"`

	// Operation is the mutation kind to replay.
	Operation Operation `json:"operation"`

	// Payload is the serialized entity snapshot. Empty for deletes.
	Payload json.RawMessage `json:"payload,omitempty"`

	// UpdatedAt is the entity-level modification time of the payload.
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadBatchRequest carries one network batch of mutations for a single
// user and entity type.
type UploadBatchRequest struct {
	// UserID is the owner of every item in the batch.
	UserID int64 `json:"user_id"`

	// Items are the mutations, in queue order.
	Items []UploadItem `json:"items"`

	// Atomic requests all-or-nothing application: if any item cannot be
	// applied, none are, and every outcome reports the batch failure.
	Atomic bool `json:"atomic,omitempty"`

	// BatchID is the client-side grouping key for atomic batches.
	BatchID string `json:"batch_id,omitempty"`

	// Length is the total number of entries in Items.
	Length int `json:"length"`
}

// ItemOutcome is the server's verdict on one uploaded item.
type ItemOutcome struct {
	// ItemID echoes UploadItem.ItemID.
	ItemID string `json:"item_id"`

	// EntityID echoes the entity the verdict concerns.
	EntityID string `json:"entity_id"`

	// Status is the per-item verdict.
	Status OutcomeStatus `json:"status"`

	// Message carries diagnostic context for non-ok outcomes.
	Message string `json:"message,omitempty"`
}

// UploadBatchResponse reports per-item outcomes, never just a batch-level
// status, so the client can settle items independently.
type UploadBatchResponse struct {
	// Outcomes holds one verdict per uploaded item, in request order.
	Outcomes []ItemOutcome `json:"outcomes"`

	// Length is the total number of entries in Outcomes.
	Length int `json:"length"`

	// ServerTime is the server clock at processing time.
	ServerTime time.Time `json:"server_time"`
}

// DownloadResponse carries remote changes newer than the requested
// watermark for one user and entity type.
type DownloadResponse struct {
	// Snapshots are the changed entities, including tombstones.
	Snapshots []EntitySnapshot `json:"snapshots"`

	// Length is the total number of entries in Snapshots.
	Length int `json:"length"`

	// ServerTime is the server clock at query time. The client advances
	// its watermark to this value after a fully successful reconcile, so
	// client clock skew never moves the cursor.
	ServerTime time.Time `json:"server_time"`
}
