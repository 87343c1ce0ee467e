package models

// SyncStatus is the outcome reported for a sync phase or run.
type SyncStatus string

const (
	SyncStatusSuccess   SyncStatus = "success"
	SyncStatusConflict  SyncStatus = "conflict"
	SyncStatusError     SyncStatus = "error"
	SyncStatusCancelled SyncStatus = "cancelled"
)

// SyncPhase is the orchestrator's position in a sync run.
//
// A run moves Idle → Uploading → Downloading → Reconciling → Idle,
// or to Error on unrecoverable failure before returning to Idle.
type SyncPhase string

const (
	PhaseIdle        SyncPhase = "idle"
	PhaseUploading   SyncPhase = "uploading"
	PhaseDownloading SyncPhase = "downloading"
	PhaseReconciling SyncPhase = "reconciling"
	PhaseError       SyncPhase = "error"
)

// OutcomeStatus is the server's per-item verdict inside a batch upload.
type OutcomeStatus string

const (
	// OutcomeOK means the item was applied.
	OutcomeOK OutcomeStatus = "ok"

	// OutcomeConflict means the server holds a newer version; the item was
	// not applied and reconciliation will repair the entity.
	OutcomeConflict OutcomeStatus = "conflict"

	// OutcomeRejected means the item can never be applied (malformed
	// payload, unknown operation). Rejected items are dead-lettered.
	OutcomeRejected OutcomeStatus = "rejected"

	// OutcomeFailed means a transient server-side fault; the item is
	// re-queued for retry.
	OutcomeFailed OutcomeStatus = "failed"
)

// ErrorClass is the engine's failure taxonomy. Classification decides
// whether an error is retried, strategy-resolved, or dead-lettered.
type ErrorClass string

const (
	// ErrorClassTransient covers network timeouts, 5xx responses and
	// disconnects. Retried with backoff.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassConflict covers concurrent divergent writes. Resolved by
	// the configured strategy, never surfaced as a hard failure.
	ErrorClassConflict ErrorClass = "conflict"

	// ErrorClassPermanent covers serialization mismatches and validation
	// rejections. Never retried; dead-lettered immediately.
	ErrorClassPermanent ErrorClass = "permanent"

	// ErrorClassFatal marks items that exhausted MaxAttempts. Removed from
	// the active queue and reported for out-of-band remediation.
	ErrorClassFatal ErrorClass = "fatal"
)
