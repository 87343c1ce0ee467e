package store

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

func newTestSnapshotRepo(t *testing.T) (SnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storeDB := &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}

	return NewSnapshotRepository(storeDB, logger.Nop()), mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestSnapshotRepository_ApplyAll(t *testing.T) {
	serverTime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	updatedAt := serverTime.Add(-time.Minute)

	req := models.UploadBatchRequest{
		UserID: 42,
		Items: []models.UploadItem{
			{
				ItemID:    "q-1",
				EntityID:  "climb-1",
				Operation: models.OperationCreate,
				Payload:   json.RawMessage(`{"grade":"7a"}`),
				UpdatedAt: updatedAt,
			},
			{
				ItemID:    "q-2",
				EntityID:  "climb-2",
				Operation: models.OperationDelete,
				UpdatedAt: updatedAt,
			},
		},
		Length: 2,
	}

	t.Run("success: create and delete both apply", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WithArgs(int64(42), "climb", "climb-1", []byte(`{"grade":"7a"}`), models.OperationCreate, false, updatedAt, serverTime).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WithArgs(int64(42), "climb", "climb-2", []byte(`{}`), models.OperationDelete, true, updatedAt, serverTime).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		outcomes, gotTime, err := repo.ApplyAll(context.Background(), "climb", req)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		assert.Equal(t, models.OutcomeOK, outcomes[0].Status)
		assert.Equal(t, "q-1", outcomes[0].ItemID)
		assert.Equal(t, models.OutcomeOK, outcomes[1].Status)
		assert.True(t, gotTime.Equal(serverTime))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict: stale item reports conflict but batch commits", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WillReturnResult(sqlmock.NewResult(0, 0)) // version check lost
		mock.ExpectCommit()

		outcomes, _, err := repo.ApplyAll(context.Background(), "climb", req)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		assert.Equal(t, models.OutcomeOK, outcomes[0].Status)
		assert.Equal(t, models.OutcomeConflict, outcomes[1].Status)
		assert.Equal(t, "server holds a newer version", outcomes[1].Message)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected: unknown operation and missing payload skip the db", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		badReq := models.UploadBatchRequest{
			UserID: 42,
			Items: []models.UploadItem{
				{ItemID: "q-1", EntityID: "climb-1", Operation: "rename", UpdatedAt: updatedAt},
				{ItemID: "q-2", EntityID: "climb-2", Operation: models.OperationUpdate, UpdatedAt: updatedAt},
			},
			Length: 2,
		}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectCommit()

		outcomes, _, err := repo.ApplyAll(context.Background(), "climb", badReq)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		assert.Equal(t, models.OutcomeRejected, outcomes[0].Status)
		assert.Equal(t, `unknown operation "rename"`, outcomes[0].Message)
		assert.Equal(t, models.OutcomeRejected, outcomes[1].Status)
		assert.Equal(t, "missing payload", outcomes[1].Message)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("atomic: one stale item rolls back the whole batch", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		atomicReq := req
		atomicReq.Atomic = true
		atomicReq.BatchID = "batch-xyz"

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		outcomes, gotTime, err := repo.ApplyAll(context.Background(), "climb", atomicReq)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		assert.Equal(t, models.OutcomeFailed, outcomes[0].Status)
		assert.Equal(t, "atomic batch rolled back", outcomes[0].Message)
		assert.Equal(t, models.OutcomeConflict, outcomes[1].Status)
		assert.True(t, gotTime.Equal(serverTime))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retryable db error maps to storage unavailable", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WillReturnError(pgError(pgerrcode.ConnectionFailure))
		mock.ExpectRollback()

		_, _, err := repo.ApplyAll(context.Background(), "climb", req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStorageUnavailable))
		assert.True(t, errors.Is(err, ErrExecutingStatement))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-retryable db error returned unwrapped", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectExec("INSERT INTO entity_snapshots").
			WillReturnError(pgError(pgerrcode.InvalidTextRepresentation))
		mock.ExpectRollback()

		_, _, err := repo.ApplyAll(context.Background(), "climb", req)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrStorageUnavailable))
		assert.True(t, errors.Is(err, ErrExecutingStatement))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectBegin().WillReturnError(errors.New("cannot begin"))

		_, _, err := repo.ApplyAll(context.Background(), "climb", req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBeginningTransaction))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSnapshotRepository_ChangesSince(t *testing.T) {
	serverTime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	updatedAt := serverTime.Add(-time.Hour)

	t.Run("success: first sync downloads everything", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))

		rows := sqlmock.NewRows(snapshotColumns).
			AddRow(int64(42), "climb", "climb-1", []byte(`{"grade":"7a"}`), updatedAt, false).
			AddRow(int64(42), "climb", "climb-2", []byte(`{}`), updatedAt, true)

		mock.ExpectQuery("SELECT user_id, entity_type, entity_id, payload, updated_at, deleted FROM entity_snapshots").
			WithArgs(int64(42), "climb").
			WillReturnRows(rows)

		snapshots, gotTime, err := repo.ChangesSince(context.Background(), 42, "climb", time.Time{}, 0)
		require.NoError(t, err)
		require.Len(t, snapshots, 2)

		assert.Equal(t, "climb-1", snapshots[0].EntityID)
		assert.JSONEq(t, `{"grade":"7a"}`, string(snapshots[0].Payload))
		assert.False(t, snapshots[0].Deleted)
		assert.True(t, snapshots[1].Deleted, "tombstones must be downloaded too")
		assert.True(t, gotTime.Equal(serverTime))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cursor and limit narrow the page", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		since := serverTime.Add(-30 * time.Minute)

		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(serverTime))
		mock.ExpectQuery("SELECT user_id, entity_type, entity_id, payload, updated_at, deleted FROM entity_snapshots").
			WithArgs(int64(42), "climb", since).
			WillReturnRows(sqlmock.NewRows(snapshotColumns))

		snapshots, _, err := repo.ChangesSince(context.Background(), 42, "climb", since, 100)
		require.NoError(t, err)
		assert.Empty(t, snapshots)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retryable db error maps to storage unavailable", func(t *testing.T) {
		repo, mock := newTestSnapshotRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectServerTime)).
			WillReturnError(pgError(pgerrcode.CannotConnectNow))

		_, _, err := repo.ChangesSince(context.Background(), 42, "climb", time.Time{}, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStorageUnavailable))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
