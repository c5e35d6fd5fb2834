package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	MinerConfig    *MinerConfig
	PoolConfig     *PoolConfig
	StatsEngineCfg *StatsEngineCfg
	StatusConfig   *StatusConfig
	RedisConfig    *RedisConfig
	LogConfig      *LogConfig
}

// LoadEnvFile loads <env>.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(env string) error {
	if env == "" {
		return nil
	}
	file := fmt.Sprintf("%s.env", env)
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		MinerConfig:    NewMinerConfig(),
		PoolConfig:     NewPoolConfig(),
		StatsEngineCfg: NewStatsEngineCfg(),
		StatusConfig:   NewStatusConfig(),
		RedisConfig:    NewRedisConfig(),
		LogConfig:      NewLogConfig(),
	}
}

// Validate checks everything that must hold before any network activity
// and normalizes what can be fixed. The returned warnings describe values
// that were changed.
func (c *AppConfig) Validate() ([]string, error) {
	if err := ValidateAddress(c.MinerConfig.PaymentAddress); err != nil {
		return nil, err
	}
	warnings := c.MinerConfig.Normalize()
	if len(c.PoolConfig.Servers) == 0 {
		return warnings, fmt.Errorf("no pool servers configured")
	}
	if c.PoolConfig.Port <= 0 || c.PoolConfig.Port > 65535 {
		return warnings, fmt.Errorf("invalid pool port %d", c.PoolConfig.Port)
	}
	return warnings, nil
}
