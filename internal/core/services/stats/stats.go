// Package stats holds the counters shared by every compute thread.
package stats

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// DefaultWindow is how often throughput is recomputed
const DefaultWindow = time.Minute

// Shared is incremented lock-free by the compute threads. The mutex only
// guards the window roll.
type Shared struct {
	window time.Duration

	windowTests  atomic.Uint64
	windowPrimes atomic.Uint64
	windowChains [domain.MaxChainLength]atomic.Uint64
	chainBits    atomic.Uint64
	blockBits    atomic.Uint64

	totalTests  atomic.Uint64
	totalPrimes atomic.Uint64
	totalChains [domain.MaxChainLength]atomic.Uint64
	blocksFound atomic.Uint64

	mu          sync.Mutex
	windowStart time.Time
	latest      domain.StatsSnapshot
}

// NewShared starts the first window at start
func NewShared(window time.Duration, start time.Time) *Shared {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Shared{window: window, windowStart: start}
}

// AddRound folds one search round into the counters
func (s *Shared) AddRound(ws domain.WorkStats) {
	s.windowTests.Add(uint64(ws.Tests))
	s.totalTests.Add(uint64(ws.Tests))
	s.windowPrimes.Add(uint64(ws.PrimesHit))
	s.totalPrimes.Add(uint64(ws.PrimesHit))
	for i, n := range ws.ChainsFound {
		if n == 0 {
			continue
		}
		s.windowChains[i].Add(uint64(n))
		s.totalChains[i].Add(uint64(n))
	}
}

// AddExpected adds the projected chain and block yield of a round
func (s *Shared) AddExpected(chains, blocks float64) {
	addFloat(&s.chainBits, chains)
	addFloat(&s.blockBits, blocks)
}

// BlockFound counts a submitted chain
func (s *Shared) BlockFound() {
	s.blocksFound.Add(1)
}

func addFloat(bits *atomic.Uint64, delta float64) {
	for {
		old := bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Roll closes the window if it has run for at least the window length and
// returns the new snapshot. ok is false when the window is still open.
func (s *Shared) Roll(now time.Time) (snap domain.StatsSnapshot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := now.Sub(s.windowStart)
	if elapsed < s.window {
		return s.latest, false
	}
	secs := elapsed.Seconds()

	snap = domain.StatsSnapshot{
		WindowStart:  s.windowStart,
		WindowEnd:    now,
		PrimesPerSec: float64(s.windowPrimes.Swap(0)) / secs,
		TestsPerSec:  float64(s.windowTests.Swap(0)) / secs,
		ChainsPerDay: math.Float64frombits(s.chainBits.Swap(0)) * 86400 / secs,
		BlocksPerDay: math.Float64frombits(s.blockBits.Swap(0)) * 86400 / secs,
		TotalTests:   s.totalTests.Load(),
		TotalPrimes:  s.totalPrimes.Load(),
		BlocksFound:  s.blocksFound.Load(),
	}
	for i := range s.windowChains {
		snap.WindowChains[i] = s.windowChains[i].Swap(0)
		snap.ChainsFound[i] = s.totalChains[i].Load()
	}

	s.windowStart = now
	s.latest = snap
	return snap, true
}

// Latest is the snapshot produced by the last Roll
func (s *Shared) Latest() domain.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
