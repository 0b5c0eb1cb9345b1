package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClientConfig is the configuration of the ArCash client and CLI.
type ClientConfig interface {
	GetBaseURL() string
	GetStatePath() string
	GetRequestTimeout() time.Duration
	GetCacheTTL() time.Duration
	GetPageSize() int
	GetLogLevel() string
}

type Client struct {
	BaseURL        string        `env:"ARCASH_BASE_URL" envDefault:"http://localhost:8080"`
	StatePath      string        `env:"ARCASH_STATE"`
	RequestTimeout time.Duration `env:"ARCASH_TIMEOUT" envDefault:"30s"`
	CacheTTL       time.Duration `env:"ARCASH_CACHE_TTL" envDefault:"5m"`
	PageSize       int           `env:"ARCASH_PAGE_SIZE" envDefault:"10"`
	LogLevel       string        `env:"ARCASH_LOG_LEVEL" envDefault:"warn"`
}

var _ ClientConfig = Client{}

// LoadClient reads the client configuration from the environment.
func LoadClient() (Client, error) {
	c := Client{}
	if err := parseEnv(&c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (c Client) GetBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// GetStatePath returns the SQLite file holding session and cache state.
// Defaults to ~/.arcash/state.db.
func (c Client) GetStatePath() string {
	if c.StatePath != "" {
		return c.StatePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".arcash", "state.db")
	}
	return filepath.Join(home, ".arcash", "state.db")
}

func (c Client) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

func (c Client) GetCacheTTL() time.Duration {
	return c.CacheTTL
}

func (c Client) GetPageSize() int {
	return c.PageSize
}

func (c Client) GetLogLevel() string {
	return c.LogLevel
}
