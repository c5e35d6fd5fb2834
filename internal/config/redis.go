package config

import (
	"os"
	"time"
)

// RedisConfig enables the heartbeat publisher when Url is set
type RedisConfig struct {
	DB           int
	Url          string
	Password     string
	HeartbeatTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:           envInt("REDIS_DB", 0),
		Url:          os.Getenv("REDIS_URL"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		HeartbeatTTL: time.Duration(envInt("REDIS_HEARTBEAT_TTL_SEC", 120)) * time.Second,
	}
}
