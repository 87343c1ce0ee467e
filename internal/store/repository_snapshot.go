package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/models"
)

// snapshotRepository is the PostgreSQL-backed implementation of
// [SnapshotRepository]. It maintains the authoritative copy of every synced
// entity in the "entity_snapshots" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type snapshotRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSnapshotRepository constructs a [SnapshotRepository] backed by the
// provided database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	logger.Debug().Msg("creating snapshot repository")
	return &snapshotRepository{
		db:     db,
		logger: logger,
	}
}

// ApplyAll applies one uploaded batch inside a single transaction.
//
// Per-item semantics:
//   - create/update/upsert → optimistic upsert via [applySnapshot]; zero
//     affected rows means the stored row is newer → [models.OutcomeConflict].
//   - delete → the same upsert writing a tombstone (deleted = true), so
//     deleting an entity the server never saw is applied, keeping retried
//     deletes idempotent.
//   - unknown operation or missing payload → [models.OutcomeRejected].
//
// Conflict and rejection outcomes do not abort the transaction; SQL-level
// errors do. When req.Atomic is set and any item is not ok, the transaction
// is rolled back and every would-have-applied item reports
// [models.OutcomeFailed] so the client re-queues the group whole.
//
// The returned time is the transaction's NOW(), the value download cursors
// advance on.
func (r *snapshotRepository) ApplyAll(ctx context.Context, entityType string, req models.UploadBatchRequest) ([]models.ItemOutcome, time.Time, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.ApplyAll").
			Int64("user_id", req.UserID).
			Int("items", len(req.Items)).
			Msg("failed to begin transaction")
		return nil, time.Time{}, r.classify(fmt.Errorf("%w: %w", ErrBeginningTransaction, err))
	}
	defer tx.Rollback()

	var serverTime time.Time
	if err := tx.QueryRowContext(ctx, selectServerTime).Scan(&serverTime); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.ApplyAll").
			Msg("failed to read server time")
		return nil, time.Time{}, r.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	outcomes := make([]models.ItemOutcome, 0, len(req.Items))
	rejected := false

	for idx, item := range req.Items {
		outcome := models.ItemOutcome{ItemID: item.ItemID, EntityID: item.EntityID}

		switch {
		case !item.Operation.Valid():
			outcome.Status = models.OutcomeRejected
			outcome.Message = fmt.Sprintf("unknown operation %q", item.Operation)

		case item.Operation != models.OperationDelete && len(item.Payload) == 0:
			outcome.Status = models.OutcomeRejected
			outcome.Message = "missing payload"

		default:
			applied, applyErr := r.applyItem(ctx, tx, entityType, req.UserID, item, serverTime)
			if applyErr != nil {
				log.Err(applyErr).
					Str("func", "snapshotRepository.ApplyAll").
					Int("iteration", idx+1).
					Str("entity_id", item.EntityID).
					Msg("failed to apply snapshot")
				return nil, time.Time{}, r.classify(applyErr)
			}

			if applied {
				outcome.Status = models.OutcomeOK
			} else {
				outcome.Status = models.OutcomeConflict
				outcome.Message = "server holds a newer version"
			}
		}

		if outcome.Status != models.OutcomeOK {
			rejected = true
		}

		outcomes = append(outcomes, outcome)
	}

	if req.Atomic && rejected {
		// Roll back everything; ok items report the batch failure so the
		// client keeps the group intact.
		for i := range outcomes {
			if outcomes[i].Status == models.OutcomeOK {
				outcomes[i].Status = models.OutcomeFailed
				outcomes[i].Message = "atomic batch rolled back"
			}
		}

		log.Warn().
			Str("func", "snapshotRepository.ApplyAll").
			Int64("user_id", req.UserID).
			Str("batch_id", req.BatchID).
			Int("items", len(req.Items)).
			Msg("atomic batch rejected, rolling back")

		return outcomes, serverTime, nil
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "snapshotRepository.ApplyAll").
			Int64("user_id", req.UserID).
			Int("items", len(req.Items)).
			Msg("failed to commit transaction")
		return nil, time.Time{}, r.classify(fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr))
	}

	log.Info().
		Str("func", "snapshotRepository.ApplyAll").
		Int64("user_id", req.UserID).
		Str("entity_type", entityType).
		Int("items", len(req.Items)).
		Msg("batch applied")

	return outcomes, serverTime, nil
}

// applyItem runs the optimistic upsert for one item and reports whether the
// row was written. Deletes are written as tombstones with an empty object
// payload when the client sent none.
func (r *snapshotRepository) applyItem(ctx context.Context, tx execer, entityType string, userID int64, item models.UploadItem, serverTime time.Time) (bool, error) {
	payload := []byte(item.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	result, err := tx.ExecContext(ctx, applySnapshot,
		userID,
		entityType,
		item.EntityID,
		payload,
		item.Operation,
		item.Operation == models.OperationDelete,
		item.UpdatedAt.UTC(),
		serverTime,
	)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}

// ChangesSince returns snapshots received after the given cursor, oldest
// first, plus the server time the page was read at.
func (r *snapshotRepository) ChangesSince(ctx context.Context, userID int64, entityType string, since time.Time, limit int) ([]models.EntitySnapshot, time.Time, error) {
	log := logger.FromContext(ctx)

	var serverTime time.Time
	if err := r.db.QueryRowContext(ctx, selectServerTime).Scan(&serverTime); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.ChangesSince").
			Msg("failed to read server time")
		return nil, time.Time{}, r.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	query, args, err := buildChangesSinceQuery(userID, entityType, since, limit)
	if err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.ChangesSince").
			Int64("user_id", userID).
			Msg("failed to build changes query")
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.ChangesSince").
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Msg("failed to query changes")
		return nil, time.Time{}, r.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	var snapshots []models.EntitySnapshot
	for rows.Next() {
		var (
			snap    models.EntitySnapshot
			payload []byte
		)

		scanErr := rows.Scan(
			&snap.UserID,
			&snap.EntityType,
			&snap.EntityID,
			&payload,
			&snap.UpdatedAt,
			&snap.Deleted,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "snapshotRepository.ChangesSince").
				Int64("user_id", userID).
				Msg("failed to scan snapshot row")
			return nil, time.Time{}, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}

		snap.Payload = payload
		snapshots = append(snapshots, snap)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "snapshotRepository.ChangesSince").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	log.Debug().
		Str("func", "snapshotRepository.ChangesSince").
		Int64("user_id", userID).
		Str("entity_type", entityType).
		Time("since", since).
		Int("count", len(snapshots)).
		Msg("changes page read")

	return snapshots, serverTime, nil
}

// classify tags driver errors the classifier marks as retryable with
// [ErrStorageUnavailable] so handlers answer 503 instead of 500.
func (r *snapshotRepository) classify(err error) error {
	if r.db.errorClassificator != nil && r.db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return err
}

// execer is the subset of *sql.Tx used by applyItem.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
