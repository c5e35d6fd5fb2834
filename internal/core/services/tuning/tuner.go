// Package tuning adapts the primorial multiplier to measured throughput.
package tuning

import (
	"errors"
	"fmt"
	"time"
)

// HashFactor is the primorial already folded into the header hash. The
// multiplier never goes below it.
const HashFactor uint32 = 7

// DefaultRoundSamples is the number of rounds compared per window
const DefaultRoundSamples = 40

var ErrPrimorialOverflow = errors.New("primorial multiplier cannot move further")

// PrimeTable steps along the ordered table of allowed multipliers
type PrimeTable interface {
	NextPrime(p uint32) (uint32, bool)
	PreviousPrime(p uint32) (uint32, bool)
}

// Tuner hill-climbs the primorial multiplier of one compute thread. Every
// window of samples rounds is compared against the window before it. If
// blocks per second improved the multiplier keeps moving in the direction
// of its last change, otherwise it turns around.
type Tuner struct {
	table   PrimeTable
	samples int
	fixed   bool

	primorial uint32
	prev      uint32
	adjust    int

	rounds    int
	sumBlocks float64
	sumTime   time.Duration
	prevRate  float64
}

// NewTuner starts at HashFactor. A non-zero fixed pins the multiplier to
// max(fixed, HashFactor) and disables tuning.
func NewTuner(table PrimeTable, samples int, fixed uint32) *Tuner {
	if samples <= 0 {
		samples = DefaultRoundSamples
	}
	t := &Tuner{
		table:     table,
		samples:   samples,
		primorial: HashFactor,
		adjust:    1,
	}
	if fixed > 0 {
		t.fixed = true
		t.primorial = max(fixed, HashFactor)
	}
	t.prev = t.primorial
	return t
}

// Primorial is the current multiplier
func (t *Tuner) Primorial() uint32 {
	return t.primorial
}

// ObserveRound records one finished round. A round that hit no primes at
// all always asks for a larger multiplier.
func (t *Tuner) ObserveRound(blocksExpected float64, roundTime time.Duration, primesHit uint32) {
	t.sumBlocks += blocksExpected
	t.sumTime += roundTime
	t.rounds++

	if t.rounds >= t.samples {
		secs := t.sumTime.Seconds()
		if secs <= 0 {
			secs = time.Microsecond.Seconds()
		}
		rate := t.sumBlocks / secs

		rising := t.primorial >= t.prev
		if rate > t.prevRate {
			t.adjust = direction(rising)
		} else {
			t.adjust = -direction(rising)
		}

		t.prevRate = rate
		t.prev = t.primorial
		t.sumBlocks = 0
		t.sumTime = 0
		t.rounds = 0
	}

	if primesHit == 0 {
		t.adjust = 1
	}
}

func direction(up bool) int {
	if up {
		return 1
	}
	return -1
}

// Adjust applies a pending change. changed is false when nothing was
// pending or the multiplier is pinned. Stepping past the end of the table
// leaves the multiplier where it is and returns ErrPrimorialOverflow.
func (t *Tuner) Adjust() (changed bool, err error) {
	if t.fixed || t.adjust == 0 {
		return false, nil
	}
	defer func() { t.adjust = 0 }()

	if t.adjust > 0 {
		next, ok := t.table.NextPrime(t.primorial)
		if !ok {
			return false, fmt.Errorf("%w: increment from %d", ErrPrimorialOverflow, t.primorial)
		}
		t.primorial = next
		return true, nil
	}

	if t.primorial <= HashFactor {
		return false, nil
	}
	prev, ok := t.table.PreviousPrime(t.primorial)
	if !ok {
		return false, fmt.Errorf("%w: decrement from %d", ErrPrimorialOverflow, t.primorial)
	}
	t.primorial = prev
	return true, nil
}
