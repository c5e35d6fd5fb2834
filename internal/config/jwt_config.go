package config

import "os"

type JwtConfig struct {
	Secret string
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret: os.Getenv("STATUS_JWT_SECRET"),
	}
}
