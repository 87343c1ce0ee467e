package service

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/models"
)

type syncService struct {
	snapshots store.SnapshotRepository

	logger *logger.Logger
}

func NewSyncService(snapshots store.SnapshotRepository, logger *logger.Logger) SyncService {
	return &syncService{
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *syncService) ApplyBatch(ctx context.Context, entityType string, req models.UploadBatchRequest) (models.UploadBatchResponse, error) {
	outcomes, serverTime, err := s.snapshots.ApplyAll(ctx, entityType, req)
	if err != nil {
		return models.UploadBatchResponse{}, err
	}

	return models.UploadBatchResponse{
		Outcomes:   outcomes,
		Length:     len(outcomes),
		ServerTime: serverTime,
	}, nil
}

func (s *syncService) ChangesSince(ctx context.Context, userID int64, entityType string, since time.Time) (models.DownloadResponse, error) {
	snapshots, serverTime, err := s.snapshots.ChangesSince(ctx, userID, entityType, since, 0)
	if err != nil {
		return models.DownloadResponse{}, err
	}

	return models.DownloadResponse{
		Snapshots:  snapshots,
		Length:     len(snapshots),
		ServerTime: serverTime,
	}, nil
}
