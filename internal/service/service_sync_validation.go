package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ascentlog/crag-sync/internal/validators"
	"github.com/ascentlog/crag-sync/models"
)

type SyncValidationService struct {
	inner     SyncService
	validator validators.Validator
}

func NewSyncValidationService() SyncServiceWrapper {
	return &SyncValidationService{
		validator: validators.NewBatchValidator(),
	}
}

func (v *SyncValidationService) ApplyBatch(ctx context.Context, entityType string, req models.UploadBatchRequest) (models.UploadBatchResponse, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.UploadBatchResponse{}, fmt.Errorf("error during batch validation before applying: %w", err)
	}

	return v.inner.ApplyBatch(ctx, entityType, req)
}

func (v *SyncValidationService) ChangesSince(ctx context.Context, userID int64, entityType string, since time.Time) (models.DownloadResponse, error) {
	if err := v.validator.Validate(ctx, userID); err != nil {
		return models.DownloadResponse{}, fmt.Errorf("error during download request validation: %w", err)
	}

	return v.inner.ChangesSince(ctx, userID, entityType, since)
}

func (v *SyncValidationService) Wrap(inner SyncService) SyncService {
	v.inner = inner
	return v
}
