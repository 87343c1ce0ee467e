package service

import (
	"context"
	"fmt"

	"github.com/ascentlog/crag-sync/models"
)

// ListDeadLetters implements [ClientSyncEngine].
func (e *clientSyncEngine) ListDeadLetters(ctx context.Context, userID int64) ([]models.DeadLetterItem, error) {
	return e.deadLetters.List(ctx, userID)
}

// RequeueDeadLetter implements [ClientSyncEngine]. The item returns to the
// active queue with a fresh attempt budget; the dead-letter row is removed
// only after the enqueue succeeds.
func (e *clientSyncEngine) RequeueDeadLetter(ctx context.Context, id string) error {
	dead, err := e.deadLetters.Get(ctx, id)
	if err != nil {
		return err
	}

	item := dead.SyncQueueItem
	now := e.now()
	item.Attempts = 0
	item.NextRetry = now
	item.LastError = ""
	item.UpdatedAt = now

	if err := e.queue.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("requeue dead letter: %w", err)
	}
	if err := e.deadLetters.Delete(ctx, id); err != nil {
		return fmt.Errorf("drop requeued dead letter: %w", err)
	}

	e.logger.Info().
		Str("func", "clientSyncEngine.RequeueDeadLetter").
		Str("item_id", item.ID).
		Str("entity_type", item.EntityType).
		Str("entity_id", item.EntityID).
		Msg("dead letter re-queued")

	return nil
}

// PurgeDeadLetter implements [ClientSyncEngine].
func (e *clientSyncEngine) PurgeDeadLetter(ctx context.Context, id string) error {
	return e.deadLetters.Delete(ctx, id)
}

// PurgeDeadLetters implements [ClientSyncEngine].
func (e *clientSyncEngine) PurgeDeadLetters(ctx context.Context, userID int64) (int64, error) {
	return e.deadLetters.Purge(ctx, userID)
}

// ListConflicts implements [ClientSyncEngine].
func (e *clientSyncEngine) ListConflicts(ctx context.Context, userID int64) ([]models.ConflictRecord, error) {
	return e.conflicts.List(ctx, userID)
}

// ResolveConflict implements [ClientSyncEngine]. The chosen side is applied
// locally; a local choice is also re-queued for upload so the server
// converges on it.
func (e *clientSyncEngine) ResolveConflict(ctx context.Context, conflictID string, choice models.ConflictChoice) error {
	if !choice.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidConflictChoice, choice)
	}

	rec, err := e.conflicts.Get(ctx, conflictID)
	if err != nil {
		return err
	}
	repo, err := e.registry.Get(rec.EntityType)
	if err != nil {
		return err
	}

	chosen := rec.Remote
	if choice == models.ConflictChooseLocal {
		chosen = rec.Local
	}

	if err := repo.ApplyRemoteChanges(ctx, rec.UserID, []models.EntitySnapshot{chosen}); err != nil {
		return fmt.Errorf("apply conflict choice: %w", err)
	}

	if choice == models.ConflictChooseLocal {
		if err := e.enqueueSnapshot(ctx, chosen); err != nil {
			return err
		}
	}

	if err := e.conflicts.Delete(ctx, conflictID); err != nil {
		return fmt.Errorf("close conflict record: %w", err)
	}

	e.publish(models.SyncResult{
		Status:     models.SyncStatusSuccess,
		UserID:     rec.UserID,
		EntityType: rec.EntityType,
		Phase:      models.PhaseReconciling,
	})

	e.logger.Info().
		Str("func", "clientSyncEngine.ResolveConflict").
		Str("conflict_id", conflictID).
		Str("entity_type", rec.EntityType).
		Str("entity_id", rec.EntityID).
		Str("choice", string(choice)).
		Msg("conflict resolved")

	return nil
}
