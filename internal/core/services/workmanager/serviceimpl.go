package workmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/defs"
)

var _ IWorkManager = (*WorkManager)(nil)

// WorkManager implements IWorkManager
type WorkManager struct {
	factory   RunnerFactory
	publisher primary.MessagePublisher
	logger    primary.Logger

	mu      sync.RWMutex
	cells   []*WorkCell
	runners []ThreadRunner
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	submitMu sync.Mutex
}

// NewWorkManager creates a work manager. publisher carries submissions to
// whatever connection is current.
func NewWorkManager(factory RunnerFactory, publisher primary.MessagePublisher, logger primary.Logger) *WorkManager {
	return &WorkManager{
		factory:   factory,
		publisher: publisher,
		logger:    logger,
	}
}

// SpinUp starts threads compute threads, clamped to [1, defs.MaxThreads]
func (m *WorkManager) SpinUp(ctx context.Context, threads int) int {
	m.Stop()

	if threads > defs.MaxThreads {
		m.logger.Warn("Thread count clamped", "requested", threads, "max", defs.MaxThreads)
		threads = defs.MaxThreads
	}
	if threads < 1 {
		m.logger.Warn("Thread count raised to minimum", "requested", threads)
		threads = 1
	}

	runCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel = cancel
	m.cells = make([]*WorkCell, threads)
	m.runners = make([]ThreadRunner, threads)
	for i := 0; i < threads; i++ {
		m.cells[i] = NewWorkCell()
		m.runners[i] = m.factory(uint32(i), m.cells[i], m)
	}

	m.wg.Add(threads)
	for i, r := range m.runners {
		go func(thread int, r ThreadRunner) {
			defer m.wg.Done()
			if err := r.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("Compute thread stopped", "thread", thread, "error", err)
			}
		}(i, r)
	}

	m.logger.Info("Compute threads started", "threads", threads)
	return threads
}

// Stop cancels all compute threads and waits for them
func (m *WorkManager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()

	m.mu.Lock()
	m.cells = nil
	m.runners = nil
	m.mu.Unlock()

	m.logger.Info("Compute threads stopped")
}

// DispatchWork routes a to its thread's cell
func (m *WorkManager) DispatchWork(ctx context.Context, a domain.WorkAssignment) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if int64(a.Thread) >= int64(len(m.cells)) {
		return fmt.Errorf("%w: thread %d, running %d", ErrNoSuchThread, a.Thread, len(m.cells))
	}

	if !m.cells[a.Thread].Put(a) {
		m.logger.Debug("Duplicate work ignored", "thread", a.Thread, "time", a.Time)
		return nil
	}
	m.logger.Debug("Work dispatched", "thread", a.Thread, "bits", a.Bits, "time", a.Time)
	return nil
}

// SubmitFoundChain serializes rec and queues it on the connection
func (m *WorkManager) SubmitFoundChain(ctx context.Context, rec domain.SubmissionRecord) error {
	m.submitMu.Lock()
	defer m.submitMu.Unlock()

	if err := m.publisher.PublishMessage(ctx, &codec.Submission{SubmissionRecord: rec}); err != nil {
		m.logger.Error("Failed to submit chain", "thread", rec.Thread, "nonce", rec.Nonce, "error", err)
		return fmt.Errorf("failed to submit chain: %w", err)
	}
	m.logger.Info("Chain submitted", "thread", rec.Thread, "nonce", rec.Nonce)
	return nil
}

// ThreadStatuses reports every running thread
func (m *WorkManager) ThreadStatuses() []domain.ThreadStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]domain.ThreadStatus, 0, len(m.runners))
	for _, r := range m.runners {
		statuses = append(statuses, r.Status())
	}
	return statuses
}
