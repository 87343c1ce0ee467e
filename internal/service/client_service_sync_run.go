package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/ascentlog/crag-sync/internal/batch"
	"github.com/ascentlog/crag-sync/internal/repository"
	"github.com/ascentlog/crag-sync/internal/utils"
	"github.com/ascentlog/crag-sync/models"
)

// uploadStats tallies the upload phase of one run. The download phase is
// gated on retried == 0: items awaiting retry mean the server has not seen
// the full local state yet.
type uploadStats struct {
	settled   int
	conflicts int
	retried   int
	dead      int
}

// syncOneType runs the full cycle for one entity type: collect dirty local
// entities into the queue, drain the queue to the server, pull remote
// changes since the watermark, reconcile and advance the watermark. The
// caller holds the per-user run slot.
func (e *clientSyncEngine) syncOneType(ctx context.Context, userID int64, entityType string, strategy models.Strategy) error {
	repo, err := e.registry.Get(entityType)
	if err != nil {
		return err
	}

	e.logger.Info().
		Str("func", "clientSyncEngine.syncOneType").
		Int64("user_id", userID).
		Str("entity_type", entityType).
		Str("strategy", string(strategy)).
		Msg("sync run started")

	if err := e.collectLocalChanges(ctx, userID, repo); err != nil {
		return e.failRun(userID, entityType, err)
	}

	stats, err := e.uploadPhase(ctx, userID, entityType)
	if err != nil {
		return e.failRun(userID, entityType, err)
	}

	if stats.retried > 0 {
		gateErr := fmt.Errorf("%w: %d items await retry", ErrUploadIncomplete, stats.retried)
		e.publish(models.SyncResult{
			Status:     models.SyncStatusError,
			UserID:     userID,
			EntityType: entityType,
			Phase:      models.PhaseUploading,
			Uploaded:   stats.settled,
			Conflicts:  stats.conflicts,
			Err:        gateErr,
		})
		return gateErr
	}

	e.publish(models.SyncResult{
		Status:     models.SyncStatusSuccess,
		UserID:     userID,
		EntityType: entityType,
		Phase:      models.PhaseUploading,
		Uploaded:   stats.settled,
		Conflicts:  stats.conflicts,
	})

	since, err := e.syncCursor(ctx, userID, entityType, repo)
	if err != nil {
		return e.failRun(userID, entityType, err)
	}

	resp, err := e.download(ctx, userID, entityType, since)
	if err != nil {
		return e.failRun(userID, entityType, fmt.Errorf("download: %w", err))
	}

	e.publish(models.SyncResult{
		Status:     models.SyncStatusSuccess,
		UserID:     userID,
		EntityType: entityType,
		Phase:      models.PhaseDownloading,
		Downloaded: len(resp.Snapshots),
	})

	applied, conflicts, err := e.reconcile(ctx, userID, entityType, strategy, repo, resp.Snapshots, since)
	if err != nil {
		return e.failRun(userID, entityType, err)
	}

	if err := e.advanceWatermark(ctx, userID, entityType, repo, resp.ServerTime); err != nil {
		return e.failRun(userID, entityType, err)
	}

	e.publish(models.SyncResult{
		Status:     models.SyncStatusSuccess,
		UserID:     userID,
		EntityType: entityType,
		Phase:      models.PhaseReconciling,
		Uploaded:   stats.settled,
		Downloaded: applied,
		Conflicts:  stats.conflicts + conflicts,
	})

	e.logger.Info().
		Str("func", "clientSyncEngine.syncOneType").
		Int64("user_id", userID).
		Str("entity_type", entityType).
		Int("uploaded", stats.settled).
		Int("downloaded", applied).
		Int("conflicts", stats.conflicts+conflicts).
		Msg("sync run finished")

	return nil
}

// collectLocalChanges moves dirty repository entities into the durable
// queue. Entities that already have a pending queue item are skipped so a
// crash-and-restart never queues the same change twice.
func (e *clientSyncEngine) collectLocalChanges(ctx context.Context, userID int64, repo repository.Syncable) error {
	changes, err := repo.GetLocalChanges(ctx, userID)
	if err != nil {
		return fmt.Errorf("collect local changes: %w", err)
	}
	if len(changes) == 0 {
		return nil
	}

	pendingIDs, err := e.queue.PendingEntityIDs(ctx, userID, repo.EntityType())
	if err != nil {
		return fmt.Errorf("list pending entity ids: %w", err)
	}
	pending := make(map[string]bool, len(pendingIDs))
	for _, id := range pendingIDs {
		pending[id] = true
	}

	for _, snap := range changes {
		if pending[snap.EntityID] {
			continue
		}
		if err := e.enqueueSnapshot(ctx, snap); err != nil {
			return err
		}
	}

	return nil
}

// enqueueSnapshot turns a local snapshot into a queued upload. Tombstones
// become delete operations with no payload.
func (e *clientSyncEngine) enqueueSnapshot(ctx context.Context, snap models.EntitySnapshot) error {
	op := models.OperationUpsert
	payload := []byte(snap.Payload)
	if snap.Deleted {
		op = models.OperationDelete
		payload = nil
	}

	if _, err := e.QueueOperation(ctx, snap.UserID, snap.EntityType, snap.EntityID, op, payload, 0); err != nil {
		return fmt.Errorf("queue local change %s/%s: %w", snap.EntityType, snap.EntityID, err)
	}

	return nil
}

// uploadPhase drains due queue items in pages. Items seen once in this run
// are never fetched again; entities that failed gate their later items so
// operations replay on the server in order.
func (e *clientSyncEngine) uploadPhase(ctx context.Context, userID int64, entityType string) (uploadStats, error) {
	var stats uploadStats
	processed := make(map[string]bool)
	gated := make(map[string]bool)

	for {
		// The page grows past already-seen items so skipped rows never
		// mask eligible ones behind them.
		limit := e.batchSize + len(processed)
		items, err := e.queue.DequeueBatch(ctx, userID, entityType, e.now(), limit)
		if err != nil {
			return stats, fmt.Errorf("dequeue batch: %w", err)
		}

		var fresh []models.SyncQueueItem
		for _, item := range items {
			if processed[item.ID] {
				continue
			}
			processed[item.ID] = true
			fresh = append(fresh, item)
		}
		if len(fresh) == 0 {
			return stats, nil
		}

		for _, b := range e.batches.Build(fresh) {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("upload interrupted: %w", err)
			}
			if err := e.uploadBatch(ctx, userID, entityType, b, gated, &stats); err != nil {
				return stats, err
			}
		}
	}
}

// uploadBatch ships one batch and settles its items by per-item outcome.
// An atomic batch touching a gated entity is skipped whole; non-atomic
// batches drop only the gated items.
func (e *clientSyncEngine) uploadBatch(ctx context.Context, userID int64, entityType string, b batch.Batch, gated map[string]bool, stats *uploadStats) error {
	items := b.Items
	if b.Atomic {
		for _, item := range items {
			if gated[item.EntityID] {
				e.logger.Debug().
					Str("func", "clientSyncEngine.uploadBatch").
					Str("batch_id", b.BatchID).
					Str("entity_id", item.EntityID).
					Msg("atomic batch skipped: member entity gated")
				return nil
			}
		}
	} else {
		var kept []models.SyncQueueItem
		for _, item := range items {
			if gated[item.EntityID] {
				continue
			}
			kept = append(kept, item)
		}
		items = kept
	}
	if len(items) == 0 {
		return nil
	}

	req := models.UploadBatchRequest{
		UserID:  userID,
		Items:   toUploadItems(items),
		Atomic:  b.Atomic,
		BatchID: b.BatchID,
	}

	resp, err := e.adapter.UploadBatch(ctx, entityType, req)
	if err != nil {
		return e.failBatch(ctx, items, err, gated, stats)
	}

	outcomes := make(map[string]models.ItemOutcome, len(resp.Outcomes))
	for _, o := range resp.Outcomes {
		outcomes[o.ItemID] = o
	}

	if b.Atomic {
		return e.settleAtomicBatch(ctx, items, outcomes, gated, stats)
	}

	var settled []models.SyncQueueItem
	for _, item := range items {
		o, ok := outcomes[item.ID]
		if !ok {
			if err := e.failItem(ctx, item, "no outcome returned for item", gated, stats); err != nil {
				return err
			}
			continue
		}

		switch o.Status {
		case models.OutcomeOK:
			settled = append(settled, item)
			stats.settled++

		case models.OutcomeConflict:
			// The server kept its newer version; reconciliation repairs
			// the entity, so the item settles instead of retrying.
			settled = append(settled, item)
			stats.conflicts++
			e.logger.Debug().
				Str("func", "clientSyncEngine.uploadBatch").
				Str("item_id", item.ID).
				Str("entity_id", item.EntityID).
				Msg("upload conflict, deferring to reconciliation")

		case models.OutcomeRejected:
			item.LastError = o.Message
			item.UpdatedAt = e.now()
			if err := e.deadLetter(ctx, item, models.ErrorClassPermanent, gated, stats); err != nil {
				return err
			}

		default:
			if err := e.failItem(ctx, item, o.Message, gated, stats); err != nil {
				return err
			}
		}
	}

	return e.settleItems(ctx, settled)
}

// settleAtomicBatch applies all-or-nothing outcome handling: one missing or
// non-ok outcome re-queues every member, keeping the group intact for the
// next attempt.
func (e *clientSyncEngine) settleAtomicBatch(ctx context.Context, items []models.SyncQueueItem, outcomes map[string]models.ItemOutcome, gated map[string]bool, stats *uploadStats) error {
	reason := ""
	for _, item := range items {
		o, ok := outcomes[item.ID]
		if ok && o.Status == models.OutcomeOK {
			continue
		}
		if reason == "" {
			reason = o.Message
			if reason == "" {
				reason = "atomic batch failed"
			}
		}
	}

	if reason != "" {
		for _, item := range items {
			if err := e.failItem(ctx, item, reason, gated, stats); err != nil {
				return err
			}
		}
		return nil
	}

	stats.settled += len(items)
	return e.settleItems(ctx, items)
}

// settleItems removes delivered items from the queue and cancels any retry
// timers still pending for them.
func (e *clientSyncEngine) settleItems(ctx context.Context, items []models.SyncQueueItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if err := e.queue.Remove(ctx, ids...); err != nil {
		return fmt.Errorf("remove settled items: %w", err)
	}
	for _, id := range ids {
		e.scheduler.Cancel(id)
	}

	return nil
}

// failItem books one failed attempt: bump the counter, either dead-letter
// on budget exhaustion or push NextRetry out by the backoff delay and arm a
// wakeup timer. The entity is gated for the rest of the run.
func (e *clientSyncEngine) failItem(ctx context.Context, item models.SyncQueueItem, message string, gated map[string]bool, stats *uploadStats) error {
	gated[item.EntityID] = true

	item.Attempts++
	item.LastError = message
	item.UpdatedAt = e.now()

	if item.Attempts >= item.MaxAttempts {
		return e.deadLetter(ctx, item, models.ErrorClassFatal, gated, stats)
	}

	delay := e.policy.Delay(item.Attempts)
	item.NextRetry = e.now().Add(delay)

	if err := e.queue.UpdateAfterFailure(ctx, item); err != nil {
		return fmt.Errorf("update after failure: %w", err)
	}

	userID, entityType := item.UserID, item.EntityType
	e.scheduler.Schedule(item.ID, delay, func() {
		e.wake(userID, entityType)
	})
	stats.retried++

	e.logger.Debug().
		Str("func", "clientSyncEngine.failItem").
		Str("item_id", item.ID).
		Str("entity_id", item.EntityID).
		Int("attempts", item.Attempts).
		Dur("delay", delay).
		Str("last_error", message).
		Msg("item scheduled for retry")

	return nil
}

// failBatch books one failed attempt for every member after a whole-batch
// transport error. Permanent failures dead-letter immediately; the rest go
// through the normal retry path.
func (e *clientSyncEngine) failBatch(ctx context.Context, items []models.SyncQueueItem, cause error, gated map[string]bool, stats *uploadStats) error {
	// Cancellation mid-batch is not an item failure: the items keep their
	// attempt budget and next_retry, and the next run picks them up where
	// this one stopped.
	if errors.Is(cause, context.Canceled) || ctx.Err() != nil {
		return fmt.Errorf("upload cancelled: %w", cause)
	}

	class := Classify(cause)
	message := cause.Error()

	e.logger.Warn().
		Err(cause).
		Str("func", "clientSyncEngine.failBatch").
		Str("class", string(class)).
		Int("items", len(items)).
		Msg("batch upload failed")

	for _, item := range items {
		if class == models.ErrorClassPermanent {
			item.LastError = message
			item.UpdatedAt = e.now()
			if err := e.deadLetter(ctx, item, models.ErrorClassPermanent, gated, stats); err != nil {
				return err
			}
			continue
		}
		if err := e.failItem(ctx, item, message, gated, stats); err != nil {
			return err
		}
	}

	return nil
}

// deadLetter moves one item out of the active queue into the dead-letter
// store, keeping the queue clean while the payload stays available for
// manual remediation.
func (e *clientSyncEngine) deadLetter(ctx context.Context, item models.SyncQueueItem, reason models.ErrorClass, gated map[string]bool, stats *uploadStats) error {
	gated[item.EntityID] = true

	dead := models.DeadLetterItem{
		SyncQueueItem:  item,
		Reason:         reason,
		DeadLetteredAt: e.now(),
	}
	if err := e.deadLetters.Add(ctx, dead); err != nil {
		return fmt.Errorf("dead-letter item: %w", err)
	}
	if err := e.queue.Remove(ctx, item.ID); err != nil {
		return fmt.Errorf("remove dead-lettered item: %w", err)
	}
	e.scheduler.Cancel(item.ID)
	stats.dead++

	e.logger.Warn().
		Str("func", "clientSyncEngine.deadLetter").
		Str("item_id", item.ID).
		Str("entity_type", item.EntityType).
		Str("entity_id", item.EntityID).
		Str("reason", string(reason)).
		Str("last_error", item.LastError).
		Msg("item dead-lettered")

	e.publish(models.SyncResult{
		Status:     models.SyncStatusError,
		UserID:     item.UserID,
		EntityType: item.EntityType,
		Phase:      models.PhaseUploading,
		Err:        fmt.Errorf("%w: %s", ErrItemDeadLettered, item.LastError),
	})

	return nil
}

// syncCursor returns the download cursor: the stored watermark, or the
// repository's own last-sync view when no watermark row exists yet.
func (e *clientSyncEngine) syncCursor(ctx context.Context, userID int64, entityType string, repo repository.Syncable) (time.Time, error) {
	mark, err := e.watermarks.Get(ctx, userID, entityType)
	if err != nil {
		return time.Time{}, fmt.Errorf("load watermark: %w", err)
	}
	if !mark.LastSyncedAt.IsZero() {
		return mark.LastSyncedAt, nil
	}

	seed, err := repo.GetLastSyncTime(ctx, userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("seed sync cursor: %w", err)
	}

	return seed, nil
}

// download pulls remote changes since the cursor. Transient transport
// failures retry in place with a short exponential backoff before the run
// gives up.
func (e *clientSyncEngine) download(ctx context.Context, userID int64, entityType string, since time.Time) (models.DownloadResponse, error) {
	var resp models.DownloadResponse

	backoff := goretry.WithMaxRetries(2, goretry.NewExponential(250*time.Millisecond))
	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := e.adapter.DownloadSince(ctx, userID, entityType, since)
		if err != nil {
			if Classify(err) == models.ErrorClassTransient {
				return goretry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})

	return resp, err
}

// reconcile applies downloaded snapshots. Entities whose local state
// diverged since the cursor go through the conflict strategy; winners that
// originated locally are re-queued for upload and deferred decisions land
// in the conflict inbox.
func (e *clientSyncEngine) reconcile(ctx context.Context, userID int64, entityType string, strategy models.Strategy, repo repository.Syncable, snapshots []models.EntitySnapshot, since time.Time) (int, int, error) {
	if len(snapshots) == 0 {
		return 0, 0, nil
	}

	var (
		resolved  []models.EntitySnapshot
		requeue   []models.EntitySnapshot
		deferred  []models.ConflictRecord
		conflicts int
	)

	for _, remote := range snapshots {
		local, err := repo.GetByID(ctx, userID, remote.EntityID)
		switch {
		case errors.Is(err, repository.ErrEntityNotFound):
			resolved = append(resolved, remote)
			continue
		case err != nil:
			return 0, 0, fmt.Errorf("load local %s/%s: %w", entityType, remote.EntityID, err)
		}

		if !e.resolver.Detect(local, remote, since) {
			resolved = append(resolved, remote)
			continue
		}

		res, err := e.resolver.Resolve(strategy, local, remote)
		if err != nil {
			return 0, 0, fmt.Errorf("resolve %s/%s: %w", entityType, remote.EntityID, err)
		}
		conflicts++
		resolved = append(resolved, res.Snapshot)

		if res.RequeueLocal {
			requeue = append(requeue, res.Snapshot)
		}
		if res.Deferred && res.Conflict != nil {
			rec := *res.Conflict
			rec.ID = utils.NewUUID()
			deferred = append(deferred, rec)
		}
	}

	if err := repo.ApplyRemoteChanges(ctx, userID, resolved); err != nil {
		return 0, 0, fmt.Errorf("apply remote changes: %w", err)
	}

	for _, snap := range requeue {
		if err := e.enqueueSnapshot(ctx, snap); err != nil {
			return 0, 0, err
		}
	}

	for _, rec := range deferred {
		if err := e.conflicts.Save(ctx, rec); err != nil {
			return 0, 0, fmt.Errorf("save conflict record: %w", err)
		}
		e.publish(models.SyncResult{
			Status:     models.SyncStatusConflict,
			UserID:     userID,
			EntityType: entityType,
			Phase:      models.PhaseReconciling,
			Conflicts:  1,
			Conflict:   &rec,
		})
	}

	return len(resolved), conflicts, nil
}

// advanceWatermark moves the download cursor to the server-reported time.
// The repository mirror is best effort; the watermark store stays
// authoritative.
func (e *clientSyncEngine) advanceWatermark(ctx context.Context, userID int64, entityType string, repo repository.Syncable, serverTime time.Time) error {
	if serverTime.IsZero() {
		return nil
	}

	err := e.watermarks.Upsert(ctx, models.Watermark{
		UserID:       userID,
		EntityType:   entityType,
		LastSyncedAt: serverTime,
		UpdatedAt:    e.now(),
	})
	if err != nil {
		return fmt.Errorf("advance watermark: %w", err)
	}

	if err := repo.SetLastSyncTime(ctx, userID, serverTime); err != nil {
		e.logger.Warn().
			Err(err).
			Str("func", "clientSyncEngine.advanceWatermark").
			Int64("user_id", userID).
			Str("entity_type", entityType).
			Msg("mirroring last sync time into repository failed")
	}

	return nil
}

// failRun publishes the terminal event for a run that stopped early.
func (e *clientSyncEngine) failRun(userID int64, entityType string, err error) error {
	e.publish(models.SyncResult{
		Status:     statusFor(err),
		UserID:     userID,
		EntityType: entityType,
		Phase:      models.PhaseError,
		Err:        err,
	})
	return err
}

// publish stamps the event time and fans the result out to subscribers.
func (e *clientSyncEngine) publish(result models.SyncResult) {
	result.At = e.now()
	e.events.publish(result)
}

// statusFor distinguishes caller cancellation from genuine failure.
func statusFor(err error) models.SyncStatus {
	if err == nil {
		return models.SyncStatusSuccess
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.SyncStatusCancelled
	}
	return models.SyncStatusError
}

func toUploadItems(items []models.SyncQueueItem) []models.UploadItem {
	out := make([]models.UploadItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.UploadItem{
			ItemID:    item.ID,
			EntityID:  item.EntityID,
			Operation: item.Operation,
			Payload:   item.Payload,
			UpdatedAt: item.CreatedAt,
		})
	}
	return out
}
