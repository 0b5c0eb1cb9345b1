package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port          string `env:"PORT" envDefault:"8080"`
	AppName       string `env:"APP_NAME" envDefault:"ArCash"`
	Environment   string `env:"ENV" envDefault:"DEV"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@arcash.local"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Environment == "" {
		return "DEV"
	}
	return e.Environment
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetAdminEmail() string {
	return e.AdminEmail
}

// GetAdminPassword returns the seeded admin password. Empty means one is generated at startup.
func (e EnvVars) GetAdminPassword() string {
	return e.AdminPassword
}
