// Package prime is the CPU implementation of the number theory behind the
// miner: the prime table, primorials, probable-prime tests, yield
// estimates and a reference chain searcher.
package prime

import (
	"math/big"
	"sort"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
)

// TableLimit bounds the prime table
const TableLimit = 10000

var _ secondary.PrimeArithmetic = (*Arithmetic)(nil)

var table = sieve(TableLimit)

func sieve(limit int) []uint32 {
	composite := make([]bool, limit)
	var primes []uint32
	for i := 2; i < limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, uint32(i))
		for j := i * i; j < limit; j += i {
			composite[j] = true
		}
	}
	return primes
}

// Table returns a copy of the prime table
func Table() []uint32 {
	out := make([]uint32, len(table))
	copy(out, table)
	return out
}

// Arithmetic implements secondary.PrimeArithmetic
type Arithmetic struct {
	// WeavePrime is the largest prime a sieve would have removed factors of
	WeavePrime uint32

	// AverageMultiplier is the typical k a searched candidate is multiplied by
	AverageMultiplier uint32
}

// NewArithmetic returns estimators tuned for the reference searcher
func NewArithmetic() *Arithmetic {
	return &Arithmetic{
		WeavePrime:        table[len(table)*7/10],
		AverageMultiplier: DefaultWindow / 2,
	}
}

// Primorial multiplies every table prime up to p
func (a *Arithmetic) Primorial(p uint32) *big.Int {
	out := big.NewInt(1)
	var f big.Int
	for _, q := range table {
		if q > p {
			break
		}
		out.Mul(out, f.SetUint64(uint64(q)))
	}
	return out
}

// NextPrime returns the smallest table prime above p
func (a *Arithmetic) NextPrime(p uint32) (uint32, bool) {
	i := sort.Search(len(table), func(i int) bool { return table[i] > p })
	if i == len(table) {
		return p, false
	}
	return table[i], true
}

// PreviousPrime returns the largest table prime below p
func (a *Arithmetic) PreviousPrime(p uint32) (uint32, bool) {
	i := sort.Search(len(table), func(i int) bool { return table[i] >= p })
	if i == 0 {
		return p, false
	}
	return table[i-1], true
}

// ProbablePrimeWithTrialDivision divides by every table prime up to
// trialLimit before running a probabilistic test.
func (a *Arithmetic) ProbablePrimeWithTrialDivision(n *big.Int, trialLimit uint32) bool {
	if n.Sign() <= 0 {
		return false
	}
	var q, r big.Int
	for _, p := range table {
		if p > trialLimit {
			break
		}
		q.SetUint64(uint64(p))
		if r.Rem(n, &q).Sign() == 0 {
			return n.Cmp(&q) == 0
		}
	}
	return n.ProbablyPrime(0)
}
