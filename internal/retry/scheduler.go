package retry

import (
	"sync"
	"time"

	"github.com/ascentlog/crag-sync/internal/logger"
)

// Scheduler arms one cancellable timer per queue item so the engine wakes
// exactly when the item's next_retry arrives instead of polling tightly.
// Timers do not survive a process restart; the periodic sync job backstops
// items whose timers were lost.
type Scheduler struct {
	logger *logger.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewScheduler constructs an empty [Scheduler].
func NewScheduler(logger *logger.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a timer for the item, replacing any previous one. fire runs
// on the timer goroutine once the delay elapses; the timer unregisters
// itself first, so a fire and a concurrent Cancel never double-run.
func (s *Scheduler) Schedule(itemID string, delay time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[itemID]; ok {
		timer.Stop()
	}

	s.logger.Debug().
		Str("func", "Scheduler.Schedule").
		Str("item_id", itemID).
		Dur("delay", delay).
		Msg("retry timer armed")

	s.timers[itemID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, itemID)
		s.mu.Unlock()

		fire()
	})
}

// Cancel stops the timer for an item after it settled or was dead-lettered.
// Unknown ids are ignored.
func (s *Scheduler) Cancel(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[itemID]; ok {
		timer.Stop()
		delete(s.timers, itemID)
	}
}

// CancelAll stops every armed timer. Called on engine disposal.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for itemID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, itemID)
	}
}

// Active reports the number of armed timers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}
