package config

import "os"

type LogConfig struct {
	Level       string
	Development bool
}

func NewLogConfig() *LogConfig {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return &LogConfig{
		Level:       level,
		Development: os.Getenv("LOG_DEVELOPMENT") == "true",
	}
}
