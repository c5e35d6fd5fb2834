package statsengine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/config"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/stats"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/status"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

const maxPollInterval = time.Second

type StatsEngine struct {
	Cfg        *config.StatsEngineCfg
	shared     *stats.Shared
	statusSvc  status.IStatusService
	statusRepo secondary.StatusRepository
	staleAfter time.Duration
	logger     primary.Logger
	out        io.Writer
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewStatsEngine creates the background statistics loop. statusRepo may be
// nil, which disables the heartbeat. Sessions whose last heartbeat is older
// than staleAfter are dropped from the shared index.
func NewStatsEngine(
	cfg *config.StatsEngineCfg,
	shared *stats.Shared,
	statusSvc status.IStatusService,
	statusRepo secondary.StatusRepository,
	staleAfter time.Duration,
	logger primary.Logger,
	out io.Writer,
) *StatsEngine {
	return &StatsEngine{
		Cfg:        cfg,
		shared:     shared,
		statusSvc:  statusSvc,
		statusRepo: statusRepo,
		staleAfter: staleAfter,
		logger:     logger,
		out:        out,
		now:        time.Now,
	}
}

// StartStatsEngine launches the roll and heartbeat tickers. They stop when
// ctx is cancelled; Wait blocks until they have.
func (s *StatsEngine) StartStatsEngine(ctx context.Context) {
	poll := s.Cfg.StatsInterval
	if poll <= 0 || poll > maxPollInterval {
		poll = maxPollInterval
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RollStats()
			}
		}
	}()

	if s.statusRepo == nil || s.Cfg.HeartbeatInterval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.Cfg.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Heartbeat(ctx); err != nil {
					s.logger.Warn("Heartbeat failed", "error", err)
				}
			}
		}
	}()
}

func (s *StatsEngine) Wait() {
	s.wg.Wait()
}

// RollStats closes the throughput window when due and prints the compact
// statistics. It reports whether a window was closed.
func (s *StatsEngine) RollStats() bool {
	snap, ok := s.shared.Roll(s.now())
	if !ok {
		return false
	}
	fmt.Fprintln(s.out, CompactStatistics(snap.ChainsFound))
	fmt.Fprintf(s.out, "\t%3.8f chain/d\n", snap.ChainsPerDay)
	s.logger.Debug("Stats window closed",
		"primesPerSec", snap.PrimesPerSec,
		"testsPerSec", snap.TestsPerSec,
		"chainsPerDay", snap.ChainsPerDay,
		"blocksPerDay", snap.BlocksPerDay,
		"blocksFound", snap.BlocksFound)
	return true
}

// Heartbeat publishes the current status. Nothing is published before the
// first session is established.
func (s *StatsEngine) Heartbeat(ctx context.Context) error {
	if s.statusRepo == nil {
		return nil
	}
	st := s.statusSvc.Status(ctx)
	if st.SessionID == "" {
		return nil
	}
	if err := s.statusRepo.SaveStatus(ctx, st); err != nil {
		return fmt.Errorf("save status: %w", err)
	}
	if s.staleAfter > 0 {
		if err := s.statusRepo.RemoveStaleSessions(ctx, s.now().Add(-s.staleAfter)); err != nil {
			return fmt.Errorf("remove stale sessions: %w", err)
		}
	}
	return nil
}

// CompactStatistics renders the lifetime chain counts as "1ch: n 2ch: m ..."
// up to the longest length found.
func CompactStatistics(chains [domain.MaxChainLength]uint64) string {
	longest := 0
	for i, n := range chains {
		if n > 0 {
			longest = i + 1
		}
	}
	if longest == 0 {
		return "no chains found"
	}
	parts := make([]string, 0, longest)
	for i := 0; i < longest; i++ {
		parts = append(parts, fmt.Sprintf("%dch: %d", i+1, chains[i]))
	}
	return strings.Join(parts, " ")
}
