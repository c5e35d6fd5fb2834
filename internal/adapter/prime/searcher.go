package prime

import (
	"context"
	"math/big"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// Reference search bounds
const (
	DefaultWindow = 4096
	DefaultBatch  = 256
)

var _ secondary.ChainSearcher = (*Searcher)(nil)

// Searcher tests origin*k for k = 1..Window, where origin is the header
// hash times the fixed multiplier. Each k is checked for a Cunningham
// chain of either kind and for a bi-twin chain.
type Searcher struct {
	Window uint32
	Batch  uint32
}

// NewSearcher returns a searcher with the default window and batch
func NewSearcher() *Searcher {
	return &Searcher{Window: DefaultWindow, Batch: DefaultBatch}
}

type scratch struct {
	k      uint32
	origin big.Int
	n      big.Int
	p      big.Int
	kk     big.Int
}

// NewScratch implements secondary.ChainSearcher
func (s *Searcher) NewScratch() secondary.SearchScratch {
	return &scratch{}
}

// SearchForChain implements secondary.ChainSearcher
func (s *Searcher) SearchForChain(ctx context.Context, ws *domain.WorkState, raw secondary.SearchScratch) (bool, error) {
	sc := raw.(*scratch)
	if ws.NewBlock {
		ws.NewBlock = false
		sc.k = 1
		sc.origin.Mul(ws.HeaderHash, ws.FixedMultiplier)
	}

	target := domain.TargetLength(ws.Header.Bits)
	if target < 1 {
		target = 1
	}
	end := sc.k + s.Batch
	if end > s.Window+1 {
		end = s.Window + 1
	}

	for ; sc.k < end; sc.k++ {
		if sc.k%16 == 0 && ctx.Err() != nil {
			return false, ctx.Err()
		}

		sc.n.Mul(&sc.origin, sc.kk.SetUint64(uint64(sc.k)))
		ws.Stats.Tests++

		first := s.chainLength(&sc.n, &sc.p, -1)
		second := s.chainLength(&sc.n, &sc.p, 1)
		if first > 0 || second > 0 {
			ws.Stats.PrimesHit++
		}
		length := max(first, second, biTwinLength(first, second))
		if length == 0 {
			continue
		}
		ws.Stats.ChainsFound[min(length, domain.MaxChainLength)-1]++

		if length < target {
			continue
		}
		cert, ok := certificate(ws.FixedMultiplier, &sc.kk)
		if !ok {
			continue
		}
		ws.Multiplier = cert
		ws.ChainLength = length
		sc.k++
		if sc.k > s.Window {
			ws.NewBlock = true
		}
		return true, nil
	}

	if sc.k > s.Window {
		ws.NewBlock = true
	}
	return false, nil
}

// chainLength counts primes in the Cunningham chain starting at n+sign,
// each next element being 2p-sign.
func (s *Searcher) chainLength(n, p *big.Int, sign int64) uint32 {
	p.Add(n, big.NewInt(sign))
	var length uint32
	for length < domain.MaxChainLength && p.Sign() > 0 && p.ProbablyPrime(0) {
		length++
		p.Lsh(p, 1)
		p.Sub(p, big.NewInt(sign))
	}
	return length
}

func biTwinLength(first, second uint32) uint32 {
	if first > second {
		return 2*second + 1
	}
	return 2 * first
}

// certificate returns fixed*k as little-endian bytes, or false when the
// product does not fit the certificate width.
func certificate(fixed, k *big.Int) ([]byte, bool) {
	cert := littleEndian(new(big.Int).Mul(fixed, k))
	if len(cert) > domain.CertificateWidth {
		return nil, false
	}
	return cert, true
}

func littleEndian(v *big.Int) []byte {
	be := v.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}
