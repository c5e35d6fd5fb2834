package status

import (
	"context"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

var _ IStatusService = (*StatusService)(nil)

// Connection is what the status service reads from the pool client
type Connection interface {
	SessionID() string
	Server() string
	StateName() string
}

// ThreadSource lists the compute threads
type ThreadSource interface {
	ThreadStatuses() []domain.ThreadStatus
}

// StatsSource is the shared throughput counter
type StatsSource interface {
	Latest() domain.StatsSnapshot
}

// StatusService implements IStatusService
type StatusService struct {
	address string
	label   string
	conn    Connection
	threads ThreadSource
	stats   StatsSource
	now     func() time.Time
}

// NewStatusService creates a status service for a miner paying address
func NewStatusService(address, label string, conn Connection, threads ThreadSource, stats StatsSource) *StatusService {
	return &StatusService{
		address: address,
		label:   label,
		conn:    conn,
		threads: threads,
		stats:   stats,
		now:     time.Now,
	}
}

func (s *StatusService) Status(ctx context.Context) domain.MinerStatus {
	return domain.MinerStatus{
		SessionID:  s.conn.SessionID(),
		Label:      s.label,
		Address:    s.address,
		State:      s.conn.StateName(),
		Server:     s.conn.Server(),
		Threads:    s.Threads(ctx),
		Stats:      s.Stats(ctx),
		ReportedAt: s.now().UTC(),
	}
}

func (s *StatusService) Threads(_ context.Context) []domain.ThreadStatus {
	return s.threads.ThreadStatuses()
}

func (s *StatusService) Stats(_ context.Context) domain.StatsSnapshot {
	return s.stats.Latest()
}
