package workmanager

import (
	"context"
	"errors"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// ErrNoSuchThread is returned when work names a thread that is not running
var ErrNoSuchThread = errors.New("no running thread with that index")

// IWorkManager owns the compute threads and routes work and results
type IWorkManager interface {
	// SpinUp stops any running pool and starts threads fresh compute threads.
	// It returns the number actually started.
	SpinUp(ctx context.Context, threads int) int

	// Stop cancels every compute thread and waits for all of them to exit
	Stop()

	// DispatchWork hands a to the work cell of a.Thread
	DispatchWork(ctx context.Context, a domain.WorkAssignment) error

	// SubmitFoundChain sends a found chain to the pool, one submission at a time
	SubmitFoundChain(ctx context.Context, rec domain.SubmissionRecord) error

	// ThreadStatuses reports every running thread
	ThreadStatuses() []domain.ThreadStatus
}

// Submitter is the part of the work manager a compute thread reports to
type Submitter interface {
	SubmitFoundChain(ctx context.Context, rec domain.SubmissionRecord) error
}

// ThreadRunner is one compute thread
type ThreadRunner interface {
	// Run mines until ctx is cancelled
	Run(ctx context.Context) error
	Status() domain.ThreadStatus
}

// RunnerFactory builds the compute thread for index thread, bound to cell
type RunnerFactory func(thread uint32, cell *WorkCell, submitter Submitter) ThreadRunner
