package miner

import (
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// zeroHitTests scales the test count of a round that hit no primes
const zeroHitTests = 1000

// EstimateRound projects how many chains and blocks a finished round was
// worth, from the per-element prime probabilities of its primorial.
func EstimateRound(
	arith secondary.PrimeArithmetic,
	primorial, protocol, sieveTargetLength, bits uint32,
	tests, primesHit uint32,
	roundTime time.Duration,
) domain.RoundEstimate {
	calcTests := float64(max(tests, 1))
	if primesHit == 0 {
		calcTests *= zeroHitTests
	}
	timeExpected := roundTime.Seconds() / calcTests
	chains := float64(tests)

	target := domain.TargetLength(bits)
	requested := target
	if sieveTargetLength > 0 {
		requested = sieveTargetLength
	}

	for n := uint32(0); n < requested; n++ {
		p := arith.EstimateCandidatePrimeProbability(primorial, n, protocol)
		timeExpected /= p
		chains *= p
	}

	blocks := chains
	for n := requested; n < target; n++ {
		p := arith.EstimateNormalPrimeProbability(primorial, n, protocol)
		timeExpected /= p
		blocks *= p
	}

	fractional := domain.PrimeDifficulty(bits) - float64(target)
	extra := arith.EstimateNormalPrimeProbability(primorial, target, protocol)
	factor := (1-fractional)*(1-extra) + extra
	blocks *= factor
	timeExpected /= factor

	return domain.RoundEstimate{
		TimePerBlock:   timeExpected,
		ChainsExpected: chains,
		BlocksExpected: blocks,
	}
}
