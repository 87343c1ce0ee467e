package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/validators"
	"github.com/ascentlog/crag-sync/models"
)

// ─────────────────────────────────────────────
// Mock: store.SnapshotRepository
// ─────────────────────────────────────────────

type mockSnapshotRepository struct {
	applyAllFn     func(ctx context.Context, entityType string, req models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error)
	changesSinceFn func(ctx context.Context, userID int64, entityType string, since time.Time, limit int) ([]models.EntitySnapshot, time.Time, error)
}

func (m *mockSnapshotRepository) ApplyAll(ctx context.Context, entityType string, req models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error) {
	if m.applyAllFn != nil {
		return m.applyAllFn(ctx, entityType, req)
	}
	return nil, time.Time{}, nil
}

func (m *mockSnapshotRepository) ChangesSince(ctx context.Context, userID int64, entityType string, since time.Time, limit int) ([]models.EntitySnapshot, time.Time, error) {
	if m.changesSinceFn != nil {
		return m.changesSinceFn(ctx, userID, entityType, since, limit)
	}
	return nil, time.Time{}, nil
}

var errSnapshotStore = errors.New("snapshot store error")

func newRawSyncService(snapshots *mockSnapshotRepository) *syncService {
	return &syncService{
		snapshots: snapshots,
		logger:    logger.Nop(),
	}
}

// ─────────────────────────────────────────────
// ApplyBatch
// ─────────────────────────────────────────────

func TestSyncService_ApplyBatch_Success(t *testing.T) {
	serverTime := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	outcomes := []models.ItemOutcome{
		{ItemID: "i1", EntityID: "c1", Status: models.OutcomeOK},
		{ItemID: "i2", EntityID: "c2", Status: models.OutcomeConflict, Message: "stale"},
	}
	req := models.UploadBatchRequest{
		UserID: 7,
		Items: []models.UploadItem{
			{ItemID: "i1", EntityID: "c1", Operation: models.OperationUpsert, Payload: json.RawMessage(`{"grade":"7a"}`)},
			{ItemID: "i2", EntityID: "c2", Operation: models.OperationUpsert, Payload: json.RawMessage(`{"grade":"7b"}`)},
		},
	}

	snapshots := &mockSnapshotRepository{
		applyAllFn: func(_ context.Context, entityType string, got models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error) {
			assert.Equal(t, "climb", entityType)
			assert.Equal(t, req, got)
			return outcomes, serverTime, nil
		},
	}
	svc := newRawSyncService(snapshots)

	resp, err := svc.ApplyBatch(context.Background(), "climb", req)

	require.NoError(t, err)
	assert.Equal(t, outcomes, resp.Outcomes)
	assert.Equal(t, 2, resp.Length)
	assert.Equal(t, serverTime, resp.ServerTime)
}

func TestSyncService_ApplyBatch_StorageError(t *testing.T) {
	snapshots := &mockSnapshotRepository{
		applyAllFn: func(_ context.Context, _ string, _ models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error) {
			return nil, time.Time{}, errSnapshotStore
		},
	}
	svc := newRawSyncService(snapshots)

	_, err := svc.ApplyBatch(context.Background(), "climb", models.UploadBatchRequest{UserID: 7})

	require.ErrorIs(t, err, errSnapshotStore)
}

// ─────────────────────────────────────────────
// ChangesSince
// ─────────────────────────────────────────────

func TestSyncService_ChangesSince_Success(t *testing.T) {
	serverTime := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	since := serverTime.Add(-time.Hour)
	snaps := []models.EntitySnapshot{
		{EntityType: "climb", EntityID: "c1", UserID: 7, Payload: json.RawMessage(`{"grade":"7a"}`)},
	}

	snapshots := &mockSnapshotRepository{
		changesSinceFn: func(_ context.Context, userID int64, entityType string, gotSince time.Time, limit int) ([]models.EntitySnapshot, time.Time, error) {
			assert.EqualValues(t, 7, userID)
			assert.Equal(t, "climb", entityType)
			assert.Equal(t, since, gotSince)
			assert.Zero(t, limit)
			return snaps, serverTime, nil
		},
	}
	svc := newRawSyncService(snapshots)

	resp, err := svc.ChangesSince(context.Background(), 7, "climb", since)

	require.NoError(t, err)
	assert.Equal(t, snaps, resp.Snapshots)
	assert.Equal(t, 1, resp.Length)
	assert.Equal(t, serverTime, resp.ServerTime)
}

func TestSyncService_ChangesSince_StorageError(t *testing.T) {
	snapshots := &mockSnapshotRepository{
		changesSinceFn: func(_ context.Context, _ int64, _ string, _ time.Time, _ int) ([]models.EntitySnapshot, time.Time, error) {
			return nil, time.Time{}, errSnapshotStore
		},
	}
	svc := newRawSyncService(snapshots)

	_, err := svc.ChangesSince(context.Background(), 7, "climb", time.Time{})

	require.ErrorIs(t, err, errSnapshotStore)
}

// ─────────────────────────────────────────────
// Validation wrapper
// ─────────────────────────────────────────────

func TestSyncValidationService_ApplyBatch(t *testing.T) {
	called := false
	snapshots := &mockSnapshotRepository{
		applyAllFn: func(_ context.Context, _ string, _ models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error) {
			called = true
			return nil, time.Time{}, nil
		},
	}
	svc := NewSyncValidationService().Wrap(NewSyncService(snapshots, logger.Nop()))

	_, err := svc.ApplyBatch(context.Background(), "climb", models.UploadBatchRequest{
		UserID: 0,
		Items: []models.UploadItem{
			{ItemID: "i1", EntityID: "c1", Operation: models.OperationUpsert, Payload: json.RawMessage(`{}`)},
		},
	})
	require.ErrorIs(t, err, validators.ErrInvalidUserID)
	require.False(t, called, "invalid batch must not reach the store")

	_, err = svc.ApplyBatch(context.Background(), "climb", models.UploadBatchRequest{
		UserID: 7,
		Items: []models.UploadItem{
			{ItemID: "i1", EntityID: "c1", Operation: models.OperationUpsert, Payload: json.RawMessage(`{}`)},
		},
	})
	require.NoError(t, err)
	require.True(t, called)
}

func TestSyncValidationService_ChangesSince(t *testing.T) {
	called := false
	snapshots := &mockSnapshotRepository{
		changesSinceFn: func(_ context.Context, _ int64, _ string, _ time.Time, _ int) ([]models.EntitySnapshot, time.Time, error) {
			called = true
			return nil, time.Time{}, nil
		},
	}
	svc := NewSyncValidationService().Wrap(NewSyncService(snapshots, logger.Nop()))

	_, err := svc.ChangesSince(context.Background(), 0, "climb", time.Time{})
	require.ErrorIs(t, err, validators.ErrInvalidUserID)
	require.False(t, called, "invalid user id must not reach the store")

	_, err = svc.ChangesSince(context.Background(), 7, "climb", time.Time{})
	require.NoError(t, err)
	require.True(t, called)
}
