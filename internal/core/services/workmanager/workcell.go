package workmanager

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// WorkCell is the single-slot mailbox between the connection and one
// compute thread. There is one producer (the connection's read loop) and
// one consumer (the thread). A new assignment replaces one that has not
// been taken yet.
type WorkCell struct {
	pending atomic.Pointer[domain.WorkAssignment]
	held    atomic.Pointer[domain.WorkAssignment]
	notify  chan struct{}
}

// NewWorkCell returns an empty cell
func NewWorkCell() *WorkCell {
	return &WorkCell{notify: make(chan struct{}, 1)}
}

// Put publishes a and then signals the consumer. An assignment with the
// same time as the one last accepted is dropped and Put returns false.
func (c *WorkCell) Put(a domain.WorkAssignment) bool {
	if last := c.held.Load(); last != nil && last.Time == a.Time {
		return false
	}
	stored := a
	c.held.Store(&stored)
	c.pending.Store(&stored)

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return true
}

// HasNew reports whether an assignment is waiting to be taken
func (c *WorkCell) HasNew() bool {
	return c.pending.Load() != nil
}

// TryTake takes the pending assignment, if any
func (c *WorkCell) TryTake() (domain.WorkAssignment, bool) {
	p := c.pending.Swap(nil)
	if p == nil {
		return domain.WorkAssignment{}, false
	}
	return *p, true
}

// Wait blocks until an assignment can be taken. poll bounds how long a
// missed signal can delay the consumer.
func (c *WorkCell) Wait(ctx context.Context, poll time.Duration) (domain.WorkAssignment, error) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if a, ok := c.TryTake(); ok {
			return a, nil
		}
		select {
		case <-ctx.Done():
			return domain.WorkAssignment{}, ctx.Err()
		case <-c.notify:
		case <-ticker.C:
		}
	}
}
