package client

import (
	"context"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
	"github.com/ascentlog/crag-sync/internal/service"
	"github.com/ascentlog/crag-sync/models"
)

// syncWorker drives the engine's periodic sync job.
type syncWorker struct {
	engine   service.ClientSyncEngine
	userID   int64
	interval time.Duration
}

func (w *syncWorker) Run() {
	w.engine.StartPeriodicSync(context.Background(), w.userID, w.interval)
}

func (w *syncWorker) Stop() {
	w.engine.StopPeriodicSync()
}

// eventsWorker consumes the engine's event stream and mirrors it into the
// process log.
type eventsWorker struct {
	engine service.ClientSyncEngine
	logger *logger.Logger

	ch   <-chan models.SyncResult
	done chan struct{}
}

func (w *eventsWorker) Run() {
	w.ch = w.engine.Subscribe()
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		for result := range w.ch {
			w.log(result)
		}
	}()
}

// Stop unsubscribes from the event stream, which closes the channel, and
// waits for the logging goroutine to drain.
func (w *eventsWorker) Stop() {
	if w.ch == nil {
		return
	}

	w.engine.Unsubscribe(w.ch)
	<-w.done
}

func (w *eventsWorker) log(result models.SyncResult) {
	event := w.logger.Info()
	if result.Status == models.SyncStatusError {
		event = w.logger.Warn().Err(result.Err)
	}

	event.
		Str("status", string(result.Status)).
		Str("phase", string(result.Phase)).
		Str("entity_type", result.EntityType).
		Int64("user_id", result.UserID).
		Int("uploaded", result.Uploaded).
		Int("downloaded", result.Downloaded).
		Int("conflicts", result.Conflicts).
		Msg("sync event")
}
