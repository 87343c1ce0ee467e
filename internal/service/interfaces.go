package service

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/models"
)

// SyncService is the server-side application layer behind the sync endpoints.
type SyncService interface {
	// ApplyBatch applies one uploaded batch of mutations and returns the
	// per-item outcomes together with the server time of the transaction.
	ApplyBatch(ctx context.Context, entityType string, req models.UploadBatchRequest) (models.UploadBatchResponse, error)

	// ChangesSince returns snapshots of one entity type changed after since
	// for a user, tombstones included, plus the server time of the read.
	ChangesSince(ctx context.Context, userID int64, entityType string, since time.Time) (models.DownloadResponse, error)
}

// AppInfoService exposes build metadata of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// validation or logging.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService // returns a decorated SyncService applying additional behavior
}
