package miner

import (
	"context"
	"math/big"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// NonceLimit is where a header is given up on
const NonceLimit uint32 = 0xFFFF0000

// TrialDivisionLimit bounds trial division of the header hash under
// mining protocol 2
const TrialDivisionLimit = 1000

// cancelCheckInterval is how many nonces pass between cancellation checks
const cancelCheckInterval = 1024

var hashLimit = new(big.Int).Lsh(big.NewInt(1), 255)

// HeaderFilter finds the next nonce whose header hash may start a chain.
// The hash must be at least 2^255 and, under the legacy protocol, divisible
// by the hash factor. Under protocol 2 it must be a probable prime.
type HeaderFilter struct {
	protocol   uint32
	hashFactor *big.Int
	arith      secondary.PrimeArithmetic
	rem        big.Int
}

// NewHeaderFilter builds a filter for protocol with hashFactor = p#
func NewHeaderFilter(protocol uint32, hashFactor *big.Int, arith secondary.PrimeArithmetic) *HeaderFilter {
	return &HeaderFilter{
		protocol:   protocol,
		hashFactor: hashFactor,
		arith:      arith,
	}
}

// Advance moves ws.Header.Nonce forward to the next acceptable header and
// stores its hash in ws.HeaderHash. It returns false once the nonce
// reaches NonceLimit.
func (f *HeaderFilter) Advance(ctx context.Context, ws *domain.WorkState) (bool, error) {
	for i := 0; ; i++ {
		if ws.Header.Nonce >= NonceLimit {
			return false, nil
		}
		ws.Header.Nonce++
		if ws.Header.Nonce >= NonceLimit {
			return false, nil
		}

		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			return false, ctx.Err()
		}

		hash := ws.Header.HashInt()
		if hash.Cmp(hashLimit) < 0 {
			continue
		}
		if f.protocol >= 2 {
			if !f.arith.ProbablePrimeWithTrialDivision(hash, TrialDivisionLimit) {
				continue
			}
		} else if f.rem.Rem(hash, f.hashFactor).Sign() != 0 {
			continue
		}

		ws.HeaderHash = hash
		return true, nil
	}
}
