package prime

import (
	"context"
	"math/big"
	"testing"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

func TestTable(t *testing.T) {
	primes := Table()
	if len(primes) != 1229 {
		t.Fatalf("table has %d primes below %d, want 1229", len(primes), TableLimit)
	}
	if primes[0] != 2 || primes[len(primes)-1] != 9973 {
		t.Fatalf("table spans %d..%d", primes[0], primes[len(primes)-1])
	}
}

func TestNextPreviousPrime(t *testing.T) {
	a := NewArithmetic()
	tests := []struct {
		p          uint32
		next, prev uint32
		nextOK     bool
		prevOK     bool
	}{
		{7, 11, 5, true, true},
		{8, 11, 7, true, true},
		{2, 3, 2, true, false},
		{9973, 9973, 9967, false, true},
	}
	for _, tt := range tests {
		next, ok := a.NextPrime(tt.p)
		if ok != tt.nextOK || (ok && next != tt.next) {
			t.Errorf("NextPrime(%d) = %d, %v", tt.p, next, ok)
		}
		prev, ok := a.PreviousPrime(tt.p)
		if ok != tt.prevOK || (ok && prev != tt.prev) {
			t.Errorf("PreviousPrime(%d) = %d, %v", tt.p, prev, ok)
		}
	}
}

func TestPrimorial(t *testing.T) {
	a := NewArithmetic()
	if got := a.Primorial(7).Int64(); got != 210 {
		t.Errorf("7# = %d, want 210", got)
	}
	if got := a.Primorial(12).Int64(); got != 2310 {
		t.Errorf("12# = %d, want 2310", got)
	}
	if got := a.Primorial(1).Int64(); got != 1 {
		t.Errorf("1# = %d, want 1", got)
	}
}

func TestProbablePrimeWithTrialDivision(t *testing.T) {
	a := NewArithmetic()
	mersenne := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	tests := []struct {
		n    *big.Int
		want bool
	}{
		{big.NewInt(2), true},
		{big.NewInt(997), true},
		{big.NewInt(1001), false},
		{big.NewInt(1), false},
		{big.NewInt(0), false},
		{mersenne, true},
		{new(big.Int).Mul(mersenne, big.NewInt(3)), false},
	}
	for _, tt := range tests {
		if got := a.ProbablePrimeWithTrialDivision(tt.n, 1000); got != tt.want {
			t.Errorf("ProbablePrimeWithTrialDivision(%s) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestEstimates(t *testing.T) {
	a := NewArithmetic()
	for _, protocol := range []uint32{1, 2} {
		prev := 1.0
		for n := uint32(0); n < 10; n++ {
			c := a.EstimateCandidatePrimeProbability(13, n, protocol)
			if c <= 0 || c > 1 {
				t.Fatalf("candidate probability %v out of range", c)
			}
			if c > prev {
				t.Fatalf("probability grew along the chain: %v > %v", c, prev)
			}
			prev = c
			if normal := a.EstimateNormalPrimeProbability(13, n, protocol); normal >= c {
				t.Fatalf("unsieved probability %v not below sieved %v", normal, c)
			}
		}
	}
}

func newState(hash int64, bits uint32) *domain.WorkState {
	ws := domain.NewWorkState(domain.WorkAssignment{Bits: bits})
	ws.HeaderHash = big.NewInt(hash)
	ws.FixedMultiplier = big.NewInt(1)
	return ws
}

func TestSearcherFindsChain(t *testing.T) {
	s := &Searcher{Window: 64, Batch: 64}
	ws := newState(3, 0x01000000)

	found, err := s.SearchForChain(context.Background(), ws, s.NewScratch())
	if err != nil {
		t.Fatalf("SearchForChain: %v", err)
	}
	if !found {
		t.Fatal("no chain of length 1 found")
	}
	if ws.ChainLength < 1 {
		t.Errorf("chain length = %d", ws.ChainLength)
	}

	// the certificate is the multiplier k, little-endian
	k := new(big.Int).SetBytes(reverse(ws.Multiplier))
	origin := new(big.Int).Mul(ws.HeaderHash, k)
	minus := new(big.Int).Sub(origin, big.NewInt(1))
	plus := new(big.Int).Add(origin, big.NewInt(1))
	if !minus.ProbablyPrime(0) && !plus.ProbablyPrime(0) {
		t.Errorf("certificate %x does not yield a prime next to %s", ws.Multiplier, origin)
	}
	if ws.Stats.Tests == 0 || ws.Stats.PrimesHit == 0 {
		t.Errorf("stats not recorded: %+v", ws.Stats)
	}
}

func TestSearcherExhaustsWindow(t *testing.T) {
	s := &Searcher{Window: 8, Batch: 4}
	ws := newState(1<<40, 0x0c000000)
	sc := s.NewScratch()

	for call := 0; call < 2; call++ {
		if found, err := s.SearchForChain(context.Background(), ws, sc); found || err != nil {
			t.Fatalf("call %d: found=%v err=%v", call, found, err)
		}
	}
	if !ws.NewBlock {
		t.Fatal("window used up but NewBlock not set")
	}
	if ws.Stats.Tests != 8 {
		t.Errorf("tests = %d, want 8", ws.Stats.Tests)
	}
}

func TestSearcherHonoursCancel(t *testing.T) {
	s := &Searcher{Window: 1024, Batch: 1024}
	ws := newState(1<<40, 0x0c000000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SearchForChain(ctx, ws, s.NewScratch()); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

func TestCertificateWidth(t *testing.T) {
	cert, ok := certificate(big.NewInt(0x012A), big.NewInt(1))
	if !ok || len(cert) != 2 || cert[0] != 0x2A || cert[1] != 0x01 {
		t.Fatalf("certificate(0x012A) = %x, %v", cert, ok)
	}

	widest := new(big.Int).Lsh(big.NewInt(1), 8*domain.CertificateWidth)
	widest.Sub(widest, big.NewInt(1))
	if cert, ok = certificate(widest, big.NewInt(1)); !ok || len(cert) != domain.CertificateWidth {
		t.Fatalf("2^256-1: len = %d, ok = %v", len(cert), ok)
	}
	if _, ok = certificate(widest, big.NewInt(2)); ok {
		t.Fatal("multiplier wider than the certificate width was accepted")
	}
}
