package models

import "time"

// ConflictChoice is the explicit user decision resolving a deferred conflict.
type ConflictChoice string

const (
	ConflictChooseLocal  ConflictChoice = "local"
	ConflictChooseRemote ConflictChoice = "remote"
)

// Valid reports whether the choice is one of the known values.
func (c ConflictChoice) Valid() bool {
	return c == ConflictChooseLocal || c == ConflictChooseRemote
}

// ConflictRecord captures a detected divergence between the local and
// remote snapshot of one entity.
//
// Records are ephemeral: created during reconciliation, consumed by the
// resolution strategy, and discarded. Only under StrategyUserChoice is a
// record persisted, waiting for an explicit decision.
type ConflictRecord struct {
	// ID identifies the record in the conflict inbox (UUID).
	ID string `json:"id"`

	// UserID is the owner of the conflicted entity.
	UserID int64 `json:"user_id"`

	// EntityType tags the repository the entity belongs to.
	EntityType string `json:"entity_type"`

	// EntityID identifies the conflicted entity.
	EntityID string `json:"entity_id"`

	// Local is the client-side snapshot at detection time.
	Local EntitySnapshot `json:"local"`

	// Remote is the server-side snapshot the local one diverged from.
	Remote EntitySnapshot `json:"remote"`

	// Strategy is the policy the conflict was detected under.
	Strategy Strategy `json:"strategy"`

	// DetectedAt is when reconciliation found the divergence.
	DetectedAt time.Time `json:"detected_at"`
}

// TableName returns the name of the database table
// associated with the ConflictRecord model.
func (c *ConflictRecord) TableName() string {
	return "sync_conflicts"
}
