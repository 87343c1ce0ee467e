package models

import "time"

// SyncResult is one event on the engine's event stream. Subscribers use
// it to drive progress indicators, conflict prompts and failure badges.
type SyncResult struct {
	// Status is the outcome being reported.
	Status SyncStatus `json:"status"`

	// UserID is the user whose sync run produced the event.
	UserID int64 `json:"user_id"`

	// EntityType is the repository the event concerns. Empty for
	// run-level events.
	EntityType string `json:"entity_type,omitempty"`

	// Phase is the orchestrator phase the event was emitted from.
	Phase SyncPhase `json:"phase,omitempty"`

	// Uploaded, Downloaded and Conflicts count the work done in the
	// reported phase.
	Uploaded   int `json:"uploaded,omitempty"`
	Downloaded int `json:"downloaded,omitempty"`
	Conflicts  int `json:"conflicts,omitempty"`

	// Conflict carries the detected divergence for conflict events,
	// so a UI can prompt the user with both snapshots.
	Conflict *ConflictRecord `json:"conflict,omitempty"`

	// Err is the failure behind an error event. In-process only.
	Err error `json:"-"`

	// At is when the event was emitted.
	At time.Time `json:"at"`
}

// SyncEngineStatus is a point-in-time summary of the engine's state for
// one user, served by the control surface.
type SyncEngineStatus struct {
	// UserID is the user the summary belongs to.
	UserID int64 `json:"user_id"`

	// Running reports whether a sync run is currently in flight.
	Running bool `json:"running"`

	// PendingItems is the number of items waiting in the active queue.
	PendingItems int `json:"pending_items"`

	// DeadLetters is the number of items parked for remediation.
	DeadLetters int `json:"dead_letters"`

	// OpenConflicts is the number of unresolved userChoice conflicts.
	OpenConflicts int `json:"open_conflicts"`

	// Watermarks lists the per-entity-type sync cursors.
	Watermarks []Watermark `json:"watermarks"`
}
