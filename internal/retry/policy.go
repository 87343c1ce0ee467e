// Package retry implements the backoff policy and the wakeup scheduling for
// failed queue items. The policy is pure computation; the scheduler owns one
// cancellable timer per item.
package retry

import (
	"math/rand"
	"time"
)

const (
	// DefaultMaxDelay caps the exponential term so long outages do not push
	// retries out indefinitely.
	DefaultMaxDelay = 5 * time.Minute

	// DefaultJitter bounds the random noise added to every delay.
	DefaultJitter = time.Second
)

// Policy computes retry delays: exponential backoff plus bounded jitter.
// The jitter keeps a fleet of clients that failed together from retrying
// together.
type Policy struct {
	// BaseDelay is the first retry delay; each further attempt doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the exponential term. Zero disables the cap.
	MaxDelay time.Duration

	// Jitter bounds the random noise added on top. Zero disables jitter.
	Jitter time.Duration

	// rand yields values in [0.0, 1.0). Injectable for deterministic tests.
	rand func() float64
}

// NewPolicy builds a [Policy] with the configured base delay and the default
// cap and jitter.
func NewPolicy(baseDelay time.Duration) Policy {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return Policy{
		BaseDelay: baseDelay,
		MaxDelay:  DefaultMaxDelay,
		Jitter:    DefaultJitter,
		rand:      rand.Float64,
	}
}

// Delay computes the wait before the given attempt. Attempts are 1-based:
// attempt 1 is the first retry and waits BaseDelay (plus jitter), attempt 2
// waits twice that, and so on.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	backoff := p.BaseDelay
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if p.MaxDelay > 0 && backoff >= p.MaxDelay {
			backoff = p.MaxDelay
			break
		}
	}

	var jitter time.Duration
	if p.Jitter > 0 && p.rand != nil {
		jitter = time.Duration(p.rand() * float64(p.Jitter))
	}

	return backoff + jitter
}
