package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ascentlog/crag-sync/internal/adapter"
	"github.com/ascentlog/crag-sync/internal/batch"
	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/repository"
	"github.com/ascentlog/crag-sync/internal/resolver"
	"github.com/ascentlog/crag-sync/internal/retry"
	"github.com/ascentlog/crag-sync/internal/store"
	"github.com/ascentlog/crag-sync/internal/utils"
	"github.com/ascentlog/crag-sync/models"
)

// QueueOption customises a queue item built by QueueOperation.
type QueueOption func(*models.SyncQueueItem)

// WithBatchID groups the item with others sharing the same id into one
// atomic batch: all of them succeed or are re-queued together.
func WithBatchID(batchID string) QueueOption {
	return func(item *models.SyncQueueItem) {
		item.BatchID = batchID
	}
}

// WithMaxAttempts overrides the configured attempt budget for one item.
func WithMaxAttempts(maxAttempts int) QueueOption {
	return func(item *models.SyncQueueItem) {
		item.MaxAttempts = maxAttempts
	}
}

type clientSyncEngine struct {
	queue       store.QueueRepository
	watermarks  store.WatermarkRepository
	conflicts   store.ConflictRepository
	deadLetters store.DeadLetterRepository
	registry    *repository.Registry
	adapter     adapter.ServerAdapter
	resolver    *resolver.Resolver

	policy    retry.Policy
	scheduler *retry.Scheduler
	batches   batch.Builder
	events    *eventBus
	job       ClientSyncJob

	defaultStrategy models.Strategy
	maxAttempts     int
	batchSize       int

	// now is the engine clock; injectable for deterministic tests.
	now func() time.Time

	// mu guards running and closed. running enforces the single sync in
	// flight per user; enqueue paths never take it.
	mu      sync.Mutex
	running map[int64]bool
	closed  bool

	logger *logger.Logger
}

// NewClientSyncEngine wires the synchronization engine over the durable
// client stores, the registered repositories, and the server transport.
// Unset sync knobs in cfg fall back to the package defaults.
func NewClientSyncEngine(storages *store.ClientStorages, registry *repository.Registry, serverAdapter adapter.ServerAdapter, cfg config.ClientSync, logger *logger.Logger) ClientSyncEngine {
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = models.DefaultStrategy
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = models.DefaultMaxAttempts
	}

	builder := batch.NewBuilder(cfg.BatchSize)

	e := &clientSyncEngine{
		queue:           storages.QueueRepository,
		watermarks:      storages.WatermarkRepository,
		conflicts:       storages.ConflictRepository,
		deadLetters:     storages.DeadLetterRepository,
		registry:        registry,
		adapter:         serverAdapter,
		resolver:        resolver.NewResolver(cfg, logger),
		policy:          retry.NewPolicy(cfg.BaseDelay),
		scheduler:       retry.NewScheduler(logger),
		batches:         builder,
		events:          newEventBus(),
		defaultStrategy: strategy,
		maxAttempts:     maxAttempts,
		batchSize:       builder.MaxSize(),
		now:             time.Now,
		running:         make(map[int64]bool),
		logger:          logger,
	}
	e.job = NewClientSyncJob(e, logger)

	return e
}

// SyncAll implements [ClientSyncEngine]. Entity types run sequentially in
// registration order; a failing type does not stop the others. The combined
// error joins every per-type failure.
func (e *clientSyncEngine) SyncAll(ctx context.Context, userID int64, strategy models.Strategy) error {
	strategy, err := e.pickStrategy(strategy)
	if err != nil {
		return err
	}
	if err := e.begin(userID); err != nil {
		return err
	}
	defer e.end(userID)

	var errs []error
	for _, entityType := range e.registry.Types() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.publish(models.SyncResult{
				Status: models.SyncStatusCancelled,
				UserID: userID,
				Err:    ctxErr,
			})
			errs = append(errs, ctxErr)
			break
		}

		if err := e.syncOneType(ctx, userID, entityType, strategy); err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", entityType, err))
		}
	}

	return errors.Join(errs...)
}

// SyncEntityType implements [ClientSyncEngine].
func (e *clientSyncEngine) SyncEntityType(ctx context.Context, userID int64, entityType string, strategy models.Strategy) error {
	strategy, err := e.pickStrategy(strategy)
	if err != nil {
		return err
	}
	if _, err := e.registry.Get(entityType); err != nil {
		return err
	}
	if err := e.begin(userID); err != nil {
		return err
	}
	defer e.end(userID)

	return e.syncOneType(ctx, userID, entityType, strategy)
}

// QueueOperation implements [ClientSyncEngine]. The entity type must be
// registered so the queued item can be drained and reconciled later.
func (e *clientSyncEngine) QueueOperation(ctx context.Context, userID int64, entityType, entityID string, op models.Operation, payload []byte, priority int, opts ...QueueOption) (models.SyncQueueItem, error) {
	switch {
	case userID <= 0:
		return models.SyncQueueItem{}, fmt.Errorf("%w: user id must be positive", ErrInvalidQueueItem)
	case entityID == "":
		return models.SyncQueueItem{}, fmt.Errorf("%w: empty entity id", ErrInvalidQueueItem)
	case !op.Valid():
		return models.SyncQueueItem{}, fmt.Errorf("%w: unknown operation %q", ErrInvalidQueueItem, op)
	case op != models.OperationDelete && len(payload) == 0:
		return models.SyncQueueItem{}, fmt.Errorf("%w: missing payload for %s", ErrInvalidQueueItem, op)
	}
	if _, err := e.registry.Get(entityType); err != nil {
		return models.SyncQueueItem{}, err
	}

	now := e.now()
	item := models.SyncQueueItem{
		ID:          utils.NewUUID(),
		UserID:      userID,
		EntityType:  entityType,
		EntityID:    entityID,
		Operation:   op,
		Payload:     payload,
		Priority:    priority,
		MaxAttempts: e.maxAttempts,
		NextRetry:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&item)
	}
	if item.MaxAttempts <= 0 {
		item.MaxAttempts = e.maxAttempts
	}

	if err := e.queue.Enqueue(ctx, item); err != nil {
		return models.SyncQueueItem{}, fmt.Errorf("enqueue operation: %w", err)
	}

	e.logger.Debug().
		Str("func", "clientSyncEngine.QueueOperation").
		Str("item_id", item.ID).
		Str("entity_type", entityType).
		Str("entity_id", entityID).
		Str("operation", string(op)).
		Msg("operation queued")

	return item, nil
}

// Subscribe implements [ClientSyncEngine].
func (e *clientSyncEngine) Subscribe() <-chan models.SyncResult {
	return e.events.subscribe()
}

// Unsubscribe implements [ClientSyncEngine].
func (e *clientSyncEngine) Unsubscribe(ch <-chan models.SyncResult) {
	e.events.unsubscribe(ch)
}

// Status implements [ClientSyncEngine].
func (e *clientSyncEngine) Status(ctx context.Context, userID int64) (models.SyncEngineStatus, error) {
	pending, err := e.queue.CountPending(ctx, userID)
	if err != nil {
		return models.SyncEngineStatus{}, fmt.Errorf("count pending: %w", err)
	}
	dead, err := e.deadLetters.Count(ctx, userID)
	if err != nil {
		return models.SyncEngineStatus{}, fmt.Errorf("count dead letters: %w", err)
	}
	open, err := e.conflicts.Count(ctx, userID)
	if err != nil {
		return models.SyncEngineStatus{}, fmt.Errorf("count conflicts: %w", err)
	}
	watermarks, err := e.watermarks.All(ctx, userID)
	if err != nil {
		return models.SyncEngineStatus{}, fmt.Errorf("list watermarks: %w", err)
	}

	e.mu.Lock()
	running := e.running[userID]
	e.mu.Unlock()

	return models.SyncEngineStatus{
		UserID:        userID,
		Running:       running,
		PendingItems:  pending,
		DeadLetters:   dead,
		OpenConflicts: open,
		Watermarks:    watermarks,
	}, nil
}

// StartPeriodicSync implements [ClientSyncEngine].
func (e *clientSyncEngine) StartPeriodicSync(ctx context.Context, userID int64, interval time.Duration) {
	e.job.Start(ctx, userID, interval)
}

// StopPeriodicSync implements [ClientSyncEngine].
func (e *clientSyncEngine) StopPeriodicSync() {
	e.job.Stop()
}

// Close implements [ClientSyncEngine]. Idempotent.
func (e *clientSyncEngine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.job.Stop()
	e.scheduler.CancelAll()
	e.events.closeAll()

	e.logger.Info().
		Str("func", "clientSyncEngine.Close").
		Msg("sync engine closed")
}

// begin claims the per-user run slot.
func (e *clientSyncEngine) begin(userID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.running[userID] {
		return ErrSyncInFlight
	}
	e.running[userID] = true
	return nil
}

func (e *clientSyncEngine) end(userID int64) {
	e.mu.Lock()
	delete(e.running, userID)
	e.mu.Unlock()
}

func (e *clientSyncEngine) pickStrategy(strategy models.Strategy) (models.Strategy, error) {
	if strategy == "" {
		return e.defaultStrategy, nil
	}
	if !strategy.Valid() {
		return "", fmt.Errorf("%w: %q", resolver.ErrUnknownStrategy, strategy)
	}
	return strategy, nil
}

// wake re-triggers a sync when a retry timer fires. Runs on the timer
// goroutine; a run already in flight absorbs the wakeup.
func (e *clientSyncEngine) wake(userID int64, entityType string) {
	err := e.SyncEntityType(context.Background(), userID, entityType, "")
	if err == nil || errors.Is(err, ErrSyncInFlight) {
		return
	}

	e.logger.Debug().
		Err(err).
		Str("func", "clientSyncEngine.wake").
		Int64("user_id", userID).
		Str("entity_type", entityType).
		Msg("retry wakeup sync failed")
}
