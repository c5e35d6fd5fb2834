package tcp

import (
	"sync"
	"time"
)

// Backoff is the reconnect delay. Every failure adds Increment to the
// base delay up to Max. It is never reset during a process lifetime.
type Backoff struct {
	Increment time.Duration
	Max       time.Duration

	mu      sync.Mutex
	current time.Duration
}

// NewBackoff returns a backoff with no failures recorded
func NewBackoff(increment, max time.Duration) *Backoff {
	return &Backoff{Increment: increment, Max: max}
}

// Next records a failure and returns how long to wait. jitter scales the
// wait down to a fraction jitter/256 of the base delay.
func (b *Backoff) Next(jitter byte) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current += b.Increment
	if b.current > b.Max {
		b.current = b.Max
	}
	return b.current * time.Duration(jitter) / 256
}

// Current is the base delay after the failures recorded so far
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
