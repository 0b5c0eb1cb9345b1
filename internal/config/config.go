package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the configuration of the reference backend.
type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	BankConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetAdminEmail() string
	GetAdminPassword() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Token
	Bank
}

// New reads the backend configuration from the environment.
func New() (Config, error) {
	c := mainConfig{}
	if err := parseEnv(&c); err != nil {
		return nil, err
	}
	return c, nil
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
