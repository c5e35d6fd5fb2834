package config

import "os"

// StatusConfig is the local status API. An empty Address disables it.
type StatusConfig struct {
	Address   string
	JwtConfig *JwtConfig
}

func NewStatusConfig() *StatusConfig {
	return &StatusConfig{
		Address:   os.Getenv("STATUS_ADDR"),
		JwtConfig: NewJwtConfig(),
	}
}
