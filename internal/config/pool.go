package config

import (
	"os"
	"strings"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/tcp/defs"
)

type PoolConfig struct {
	Servers          []string
	Port             int
	DialTimeout      time.Duration
	BackoffIncrement time.Duration
	BackoffMax       time.Duration
}

func NewPoolConfig() *PoolConfig {
	servers := append([]string(nil), defs.DefaultServers...)
	if v := os.Getenv("POOL_SERVERS"); v != "" {
		servers = servers[:0]
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				servers = append(servers, s)
			}
		}
	}
	return &PoolConfig{
		Servers:          servers,
		Port:             envInt("POOL_PORT", defs.DefaultPort),
		DialTimeout:      time.Duration(envInt("POOL_DIAL_TIMEOUT_SEC", int(defs.DialTimeout/time.Second))) * time.Second,
		BackoffIncrement: defs.BackoffIncrement,
		BackoffMax:       defs.BackoffMax,
	}
}
