package service

import (
	"sync"

	"github.com/ascentlog/crag-sync/models"
)

// eventBufferSize is the per-subscriber channel buffer. A subscriber that
// falls further behind than this loses events instead of stalling a run.
const eventBufferSize = 16

// eventBus fans sync results out to subscribers without blocking the
// publishing run. Sends are non-blocking and happen under the read lock;
// channels are only closed under the write lock.
type eventBus struct {
	mu     sync.RWMutex
	subs   map[<-chan models.SyncResult]chan models.SyncResult
	closed bool
}

func newEventBus() *eventBus {
	return &eventBus{
		subs: make(map[<-chan models.SyncResult]chan models.SyncResult),
	}
}

// subscribe registers a listener. After closeAll the returned channel is
// already closed.
func (b *eventBus) subscribe() <-chan models.SyncResult {
	ch := make(chan models.SyncResult, eventBufferSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch

	return ch
}

func (b *eventBus) unsubscribe(ch <-chan models.SyncResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sender, ok := b.subs[ch]
	if !ok {
		return
	}
	delete(b.subs, ch)
	close(sender)
}

func (b *eventBus) publish(result models.SyncResult) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sender := range b.subs {
		select {
		case sender <- result:
		default:
		}
	}
}

func (b *eventBus) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for key, sender := range b.subs {
		delete(b.subs, key)
		close(sender)
	}
}
