package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ascentlog/crag-sync/internal/config"
	"github.com/ascentlog/crag-sync/internal/logger"
)

type clientSyncJob struct {
	engine ClientSyncEngine
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that runs engine.SyncAll on a
// ticker. The job is idle until Start is called.
func NewClientSyncJob(engine ClientSyncEngine, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{engine: engine, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that syncs all entity types every interval
// with the configured default strategy. If interval is zero or negative it
// defaults to config.DefaultSyncInterval. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, userID int64, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	j.logger.Info().
		Str("func", "clientSyncJob.Start").
		Int64("user_id", userID).
		Dur("interval", interval).
		Msg("periodic sync started")

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx, userID)
			}
		}
	}()
}

func (j *clientSyncJob) tick(ctx context.Context, userID int64) {
	err := j.engine.SyncAll(ctx, userID, "")
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncInFlight):
		j.logger.Debug().
			Str("func", "clientSyncJob.tick").
			Int64("user_id", userID).
			Msg("tick skipped: sync already in flight")
	default:
		j.logger.Warn().
			Err(err).
			Str("func", "clientSyncJob.tick").
			Int64("user_id", userID).
			Msg("periodic sync failed")
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call
// when the job is not running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
