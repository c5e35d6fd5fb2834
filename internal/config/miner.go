package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Miner limits
const (
	MaxThreads     = 64
	MaxLabelLength = 63
)

type MinerConfig struct {
	PaymentAddress    string
	Threads           int
	Label             string
	LabelIsHostname   bool
	FixedPrimorial    uint32
	MiningProtocol    uint32
	SieveTargetLength uint32
}

func NewMinerConfig() *MinerConfig {
	return &MinerConfig{
		PaymentAddress:    os.Getenv("PAYMENT_ADDRESS"),
		Threads:           envInt("MINER_THREADS", 0),
		Label:             os.Getenv("MINER_LABEL"),
		LabelIsHostname:   os.Getenv("MINER_LABEL_IS_HOSTNAME") == "true",
		FixedPrimorial:    uint32(envInt("MINER_PRIMORIAL", 0)),
		MiningProtocol:    uint32(envInt("MINER_MINING_PROTOCOL", 1)),
		SieveTargetLength: uint32(envInt("MINER_SIEVE_TARGET_LENGTH", 0)),
	}
}

// Normalize fills defaults and clamps out of range values
func (c *MinerConfig) Normalize() []string {
	var warnings []string

	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.Threads > MaxThreads {
		warnings = append(warnings, fmt.Sprintf("thread count %d clamped to %d", c.Threads, MaxThreads))
		c.Threads = MaxThreads
	}

	if c.LabelIsHostname {
		host, err := os.Hostname()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("hostname unavailable for label: %v", err))
		} else {
			c.Label = host
		}
	}
	if len(c.Label) > MaxLabelLength {
		warnings = append(warnings, fmt.Sprintf("label truncated to %d bytes", MaxLabelLength))
		c.Label = c.Label[:MaxLabelLength]
	}

	if c.MiningProtocol == 0 {
		c.MiningProtocol = 1
	}
	return warnings
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
