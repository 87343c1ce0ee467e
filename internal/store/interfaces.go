package store

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SnapshotRepository is the server-side store of entity snapshots, one row
// per (user, entity type, entity id), with optimistic concurrency on the
// entity-level updated_at.
type SnapshotRepository interface {
	// ApplyAll applies one uploaded batch inside a single transaction and
	// returns per-item outcomes plus the transaction's server time. A stale
	// item (stored updated_at newer than the uploaded one) yields a conflict
	// outcome without failing the batch; if req.Atomic is set, any non-ok
	// item rolls the whole batch back.
	ApplyAll(ctx context.Context, entityType string, req models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error)

	// ChangesSince returns snapshots whose server receipt time is strictly
	// after since, oldest first, plus the server time the page was read at.
	// A zero since returns everything.
	ChangesSince(ctx context.Context, userID int64, entityType string, since time.Time, limit int) ([]models.EntitySnapshot, time.Time, error)
}
