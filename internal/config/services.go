package config

import (
	"time"
)

type StatsEngineCfg struct {
	StatsInterval     time.Duration
	HeartbeatInterval time.Duration
}

func NewStatsEngineCfg() *StatsEngineCfg {
	return &StatsEngineCfg{
		StatsInterval:     time.Duration(envInt("STATS_INTERVAL_SEC", 60)) * time.Second,
		HeartbeatInterval: time.Duration(envInt("HEARTBEAT_INTERVAL_SEC", 30)) * time.Second,
	}
}
