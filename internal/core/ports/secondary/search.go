package secondary

import (
	"context"
	"math/big"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// SearchScratch is per-thread state a ChainSearcher keeps between calls.
// Its contents are private to the implementation.
type SearchScratch interface{}

// ChainSearcher finds prime chains for a prepared work state.
//
// Each call runs one bounded slice of the search. It adds what it did to
// ws.Stats and, when a chain long enough for the header's target is found,
// stores the certificate in ws.Multiplier and returns true. Once all
// candidates for the current header are used up it sets ws.NewBlock so
// the caller advances the nonce.
type ChainSearcher interface {
	NewScratch() SearchScratch
	SearchForChain(ctx context.Context, ws *domain.WorkState, scratch SearchScratch) (bool, error)
}

// PrimeArithmetic is the number theory the mining loop needs around the search
type PrimeArithmetic interface {
	// Primorial returns the product of all primes up to and including p
	Primorial(p uint32) *big.Int

	// NextPrime and PreviousPrime step along the prime table. ok is false
	// when the table has no neighbour in that direction.
	NextPrime(p uint32) (next uint32, ok bool)
	PreviousPrime(p uint32) (prev uint32, ok bool)

	ProbablePrimeWithTrialDivision(n *big.Int, trialLimit uint32) bool

	// EstimateCandidatePrimeProbability is the chance that chain element
	// index of a sieved candidate is prime
	EstimateCandidatePrimeProbability(primorial, index, protocol uint32) float64

	// EstimateNormalPrimeProbability is the same for an unsieved number
	EstimateNormalPrimeProbability(primorial, index, protocol uint32) float64
}
