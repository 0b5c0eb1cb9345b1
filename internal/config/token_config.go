package config

import "time"

type TokenConfig interface {
	GetTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

type Token struct {
	Secret             string        `env:"JWT_SECRET"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	RefreshTokenLength int           `env:"REFRESH_TOKEN_LENGTH" envDefault:"32"`
}

var _ TokenConfig = Token{}

// GetTokenSecret returns the HMAC secret. Empty means a random one is generated at startup.
func (t Token) GetTokenSecret() string {
	return t.Secret
}

func (t Token) GetAccessTokenExpiry() time.Duration {
	if t.AccessTokenExpiry <= 0 {
		return 15 * time.Minute
	}
	return t.AccessTokenExpiry
}

func (t Token) GetRefreshTokenExpiry() time.Duration {
	if t.RefreshTokenExpiry <= 0 {
		return 7 * 24 * time.Hour
	}
	return t.RefreshTokenExpiry
}

func (t Token) GetRefreshTokenLength() int {
	if t.RefreshTokenLength <= 0 {
		return 32 // 32 bytes = 256 bits
	}
	return t.RefreshTokenLength
}
