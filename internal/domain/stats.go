package domain

import "time"

// StatsSnapshot is the throughput over one trailing window plus lifetime totals.
type StatsSnapshot struct {
	WindowStart  time.Time              `json:"window_start"`
	WindowEnd    time.Time              `json:"window_end"`
	PrimesPerSec float64                `json:"primes_per_sec"`
	TestsPerSec  float64                `json:"tests_per_sec"`
	ChainsPerDay float64                `json:"chains_per_day"`
	BlocksPerDay float64                `json:"blocks_per_day"`
	TotalTests   uint64                 `json:"total_tests"`
	TotalPrimes  uint64                 `json:"total_primes"`
	BlocksFound  uint64                 `json:"blocks_found"`
	ChainsFound  [MaxChainLength]uint64 `json:"chains_found"`
	WindowChains [MaxChainLength]uint64 `json:"window_chains"`
}

// RoundEstimate is the projected yield of one finished search round.
type RoundEstimate struct {
	TimePerBlock   float64
	ChainsExpected float64
	BlocksExpected float64
}
