package service

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

// ClientSyncEngine is the control surface of the synchronization engine.
//
// The engine keeps local mutations in a durable queue, uploads them in
// batches, downloads remote changes past the per-type watermark, resolves
// divergences through the configured conflict strategy, and reports progress
// on an event stream. At most one sync run per user is active at a time;
// concurrent triggers are coalesced with [ErrSyncInFlight].
type ClientSyncEngine interface {
	// SyncAll runs a full sync cycle for every registered entity type.
	// An empty strategy selects the configured default. Returns
	// [ErrSyncInFlight] when a run for the user is already active.
	SyncAll(ctx context.Context, userID int64, strategy models.Strategy) error

	// SyncEntityType runs one sync cycle for a single registered entity
	// type. Same coalescing rules as SyncAll.
	SyncEntityType(ctx context.Context, userID int64, entityType string, strategy models.Strategy) error

	// QueueOperation records a local mutation in the durable queue for the
	// next sync run. Safe to call while a run is in flight. Options set the
	// atomic batch id and the per-item attempt budget. Returns the persisted
	// queue item.
	QueueOperation(ctx context.Context, userID int64, entityType, entityID string, op models.Operation, payload []byte, priority int, opts ...QueueOption) (models.SyncQueueItem, error)

	// Subscribe registers a listener on the engine's event stream. Events
	// are dropped for subscribers that fall behind; the sync loop never
	// blocks on a slow listener.
	Subscribe() <-chan models.SyncResult

	// Unsubscribe removes a listener and closes its channel.
	Unsubscribe(ch <-chan models.SyncResult)

	// Status reports a point-in-time summary for one user: whether a run is
	// in flight, queue and dead-letter depths, open conflicts, and the
	// per-type watermarks.
	Status(ctx context.Context, userID int64) (models.SyncEngineStatus, error)

	// StartPeriodicSync launches the background job syncing every interval.
	// A non-positive interval selects the configured default.
	StartPeriodicSync(ctx context.Context, userID int64, interval time.Duration)

	// StopPeriodicSync stops the background job and waits for it to exit.
	StopPeriodicSync()

	// ListDeadLetters returns the items parked for remediation, newest first.
	ListDeadLetters(ctx context.Context, userID int64) ([]models.DeadLetterItem, error)

	// RequeueDeadLetter moves a dead-lettered item back to the active queue
	// with a reset attempt counter and a fresh retry time.
	RequeueDeadLetter(ctx context.Context, id string) error

	// PurgeDeadLetter drops a single dead-lettered item for good.
	PurgeDeadLetter(ctx context.Context, id string) error

	// PurgeDeadLetters drops every dead-lettered item of one user and
	// reports how many were removed.
	PurgeDeadLetters(ctx context.Context, userID int64) (int64, error)

	// ListConflicts returns the divergences awaiting an explicit decision.
	ListConflicts(ctx context.Context, userID int64) ([]models.ConflictRecord, error)

	// ResolveConflict settles a deferred conflict with the chosen side:
	// the chosen snapshot is applied locally and, when local is chosen,
	// re-queued for upload. The inbox record is removed.
	ResolveConflict(ctx context.Context, conflictID string, choice models.ConflictChoice) error

	// Close stops the periodic job, cancels all retry timers, and closes
	// subscriber channels. The engine accepts no further triggers.
	Close()
}

// ClientSyncJob is a background worker that periodically triggers a full
// sync for one user.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins. Ticks landing while
	// a run is in flight are skipped.
	Start(ctx context.Context, userID int64, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
