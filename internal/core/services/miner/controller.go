// Package miner runs the mining loop of one compute thread.
package miner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/stats"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/tuning"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/workmanager"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// Default loop settings
const (
	DefaultMiningProtocol = 1
	DefaultPollInterval   = 100 * time.Millisecond
)

var _ workmanager.ThreadRunner = (*Controller)(nil)

// WorkSource is the thread's end of its work cell
type WorkSource interface {
	Wait(ctx context.Context, poll time.Duration) (domain.WorkAssignment, error)
	HasNew() bool
}

// Config holds the mining parameters shared by every thread
type Config struct {
	MiningProtocol    uint32
	FixedPrimorial    uint32
	SieveTargetLength uint32
	PollInterval      time.Duration
	RoundSamples      int
}

// Deps are the collaborators of a controller
type Deps struct {
	Config   Config
	Searcher secondary.ChainSearcher
	Arith    secondary.PrimeArithmetic
	Stats    *stats.Shared
	Logger   primary.Logger

	// Out receives the operator notice for every found chain
	Out io.Writer

	// Now defaults to time.Now
	Now func() time.Time
}

// Controller is the mining loop of one compute thread: wait for work,
// filter headers, search, tune the primorial, submit what is found.
type Controller struct {
	thread    uint32
	work      WorkSource
	submitter workmanager.Submitter
	deps      Deps
	cfg       Config

	tuner      *tuning.Tuner
	filter     *HeaderFilter
	hashFactor *big.Int
	scratch    secondary.SearchScratch

	mu     sync.Mutex
	status domain.ThreadStatus
}

// NewController binds a mining loop to thread and its work source
func NewController(thread uint32, work WorkSource, submitter workmanager.Submitter, deps Deps) *Controller {
	cfg := deps.Config
	if cfg.MiningProtocol == 0 {
		cfg.MiningProtocol = DefaultMiningProtocol
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}

	hashFactor := deps.Arith.Primorial(tuning.HashFactor)
	tuner := tuning.NewTuner(deps.Arith, cfg.RoundSamples, cfg.FixedPrimorial)
	return &Controller{
		thread:     thread,
		work:       work,
		submitter:  submitter,
		deps:       deps,
		cfg:        cfg,
		tuner:      tuner,
		filter:     NewHeaderFilter(cfg.MiningProtocol, hashFactor, deps.Arith),
		hashFactor: hashFactor,
		scratch:    deps.Searcher.NewScratch(),
		status:     domain.ThreadStatus{Thread: thread, Primorial: tuner.Primorial()},
	}
}

// NewRunnerFactory builds controllers for the work manager
func NewRunnerFactory(deps Deps) workmanager.RunnerFactory {
	return func(thread uint32, cell *workmanager.WorkCell, submitter workmanager.Submitter) workmanager.ThreadRunner {
		return NewController(thread, cell, submitter, deps)
	}
}

// Status implements workmanager.ThreadRunner
func (c *Controller) Status() domain.ThreadStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) updateStatus(fn func(s *domain.ThreadStatus)) {
	c.mu.Lock()
	fn(&c.status)
	c.mu.Unlock()
}

// Run implements workmanager.ThreadRunner. It returns ctx.Err() once
// cancelled, observed between rounds and inside the header filter.
func (c *Controller) Run(ctx context.Context) error {
	for {
		a, err := c.work.Wait(ctx, c.cfg.PollInterval)
		if err != nil {
			return err
		}

		ws := domain.NewWorkState(a)
		c.updateStatus(func(s *domain.ThreadStatus) {
			s.HasWork = true
			s.Bits = a.Bits
			s.Nonce = 0
			s.WorkSince = c.deps.Now()
		})

		if err := c.mine(ctx, ws); err != nil {
			return err
		}
		c.updateStatus(func(s *domain.ThreadStatus) {
			s.HasWork = false
			s.Nonce = ws.Header.Nonce
		})
	}
}

// fixedMultiplier is the part of the primorial the search multiplies in
// on top of the hash
func (c *Controller) fixedMultiplier() *big.Int {
	primorial := c.deps.Arith.Primorial(c.tuner.Primorial())
	if c.cfg.MiningProtocol >= 2 {
		return primorial
	}
	if primorial.Cmp(c.hashFactor) > 0 {
		return new(big.Int).Quo(primorial, c.hashFactor)
	}
	return big.NewInt(1)
}

// mine works one assignment until it is exhausted, superseded or the
// thread is cancelled. Only cancellation returns an error.
func (c *Controller) mine(ctx context.Context, ws *domain.WorkState) error {
	ok, err := c.filter.Advance(ctx, ws)
	if err != nil {
		return err
	}
	if !ok {
		c.exhausted(ws)
		return nil
	}

	var roundTests, roundPrimes uint32
	roundStart := c.deps.Now()
	ws.FixedMultiplier = c.fixedMultiplier()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ws.Stats.Reset()

		found, err := c.deps.Searcher.SearchForChain(ctx, ws, c.scratch)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.deps.Logger.Error("Search failed, dropping work", "thread", c.thread, "error", err)
			return nil
		}
		if found {
			c.submit(ctx, ws)
		}

		roundTests += ws.Stats.Tests
		roundPrimes += ws.Stats.PrimesHit
		c.deps.Stats.AddRound(ws.Stats)

		if ws.Header.Nonce >= NonceLimit {
			c.exhausted(ws)
			return nil
		}
		if c.work.HasNew() {
			return nil
		}
		if !ws.NewBlock {
			continue
		}

		now := c.deps.Now()
		roundTime := now.Sub(roundStart)
		est := EstimateRound(c.deps.Arith, c.tuner.Primorial(), c.cfg.MiningProtocol, c.cfg.SieveTargetLength,
			ws.Header.Bits, roundTests, roundPrimes, roundTime)
		c.deps.Logger.Debug("Round estimated", "thread", c.thread, "primorial", c.tuner.Primorial(),
			"time_per_block", est.TimePerBlock, "chains", est.ChainsExpected, "blocks", est.BlocksExpected)
		c.deps.Stats.AddExpected(est.ChainsExpected, est.BlocksExpected)
		c.tuner.ObserveRound(est.BlocksExpected, roundTime, roundPrimes)

		roundStart = now
		roundTests, roundPrimes = 0, 0

		ws.Time = max(ws.Time, uint32(now.Unix()))
		ok, err := c.filter.Advance(ctx, ws)
		if err != nil {
			return err
		}
		if !ok {
			c.exhausted(ws)
			return nil
		}

		changed, err := c.tuner.Adjust()
		if err != nil {
			c.deps.Logger.Warn("Primorial not adjusted", "thread", c.thread, "primorial", c.tuner.Primorial(), "error", err)
		}
		if changed {
			ws.FixedMultiplier = c.fixedMultiplier()
		}
		c.updateStatus(func(s *domain.ThreadStatus) {
			s.Nonce = ws.Header.Nonce
			if changed {
				s.Primorial = c.tuner.Primorial()
			}
		})
	}
}

func (c *Controller) submit(ctx context.Context, ws *domain.WorkState) {
	rec := domain.NewSubmission(ws)
	fmt.Fprintf(c.deps.Out, "Found Work: %x.%x\n", rec.Nonce, reversed(rec.Certificate))
	c.deps.Logger.Info("Chain found", "thread", c.thread, "nonce", rec.Nonce, "length", ws.ChainLength)

	c.deps.Stats.BlockFound()
	c.updateStatus(func(s *domain.ThreadStatus) { s.Found++ })

	if err := c.submitter.SubmitFoundChain(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		c.deps.Logger.Warn("Submission lost", "thread", c.thread, "nonce", rec.Nonce, "error", err)
	}
}

func (c *Controller) exhausted(ws *domain.WorkState) {
	c.deps.Logger.Debug("Work exhausted", "thread", c.thread, "nonce", ws.Header.Nonce)
	c.updateStatus(func(s *domain.ThreadStatus) { s.Exhausted++ })
}

// reversed renders a little-endian certificate most significant byte first
func reversed(le []byte) []byte {
	out := make([]byte, len(le))
	for i, b := range le {
		out[len(le)-1-i] = b
	}
	return out
}
