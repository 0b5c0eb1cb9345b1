package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/jrsteele09/arcash/internal/config"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestNew_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "APP_NAME", "ENV", "ALLOWED_ORIGINS", "JWT_SECRET", "ACCESS_TOKEN_EXPIRY",
		"REFRESH_TOKEN_EXPIRY", "USD_EXCHANGE_RATE", "PAIS_TAX_RATE", "GANANCIAS_TAX_RATE", "RESEND_COOLDOWN")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "ArCash", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("*"))
	require.Empty(t, c.GetTokenSecret())
	require.Equal(t, 15*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, 7*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, 32, c.GetRefreshTokenLength())
	require.Equal(t, 1000.0, c.GetUSDExchangeRate())
	require.Equal(t, 0.30, c.GetPaisTaxRate())
	require.Equal(t, 0.30, c.GetGananciasTaxRate())
	require.Equal(t, time.Minute, c.GetResendCooldown())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("ENV", "PROD")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "2m")
	t.Setenv("USD_EXCHANGE_RATE", "1250.5")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "PROD", c.GetEnv())
	origins := c.GetAllowedOrigins()
	require.Len(t, origins, 2)
	require.True(t, origins.IsAllowedOrigin("https://b.example"))
	require.False(t, origins.IsAllowedOrigin("*"))
	require.Equal(t, 2*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, 1250.5, c.GetUSDExchangeRate())
}

func TestNew_InvalidDuration(t *testing.T) {
	t.Setenv("RESEND_COOLDOWN", "soon")

	_, err := config.New()
	require.Error(t, err)
}

func TestEnvVars_GetPort(t *testing.T) {
	require.Equal(t, ":8080", config.EnvVars{}.GetPort())
	require.Equal(t, ":3000", config.EnvVars{Port: "3000"}.GetPort())
	require.Equal(t, ":3000", config.EnvVars{Port: ":3000"}.GetPort())
}

func TestLoadClient(t *testing.T) {
	unsetEnv(t, "ARCASH_BASE_URL", "ARCASH_TIMEOUT", "ARCASH_CACHE_TTL", "ARCASH_PAGE_SIZE", "ARCASH_LOG_LEVEL")
	t.Setenv("ARCASH_STATE", "/tmp/arcash-test.db")

	c, err := config.LoadClient()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.GetBaseURL())
	require.Equal(t, "/tmp/arcash-test.db", c.GetStatePath())
	require.Equal(t, 30*time.Second, c.GetRequestTimeout())
	require.Equal(t, 5*time.Minute, c.GetCacheTTL())
	require.Equal(t, 10, c.GetPageSize())
	require.Equal(t, "warn", c.GetLogLevel())

	t.Setenv("ARCASH_BASE_URL", "https://api.arcash.example/")
	t.Setenv("ARCASH_PAGE_SIZE", "25")
	c, err = config.LoadClient()
	require.NoError(t, err)
	require.Equal(t, "https://api.arcash.example", c.GetBaseURL())
	require.Equal(t, 25, c.GetPageSize())
}

func TestClient_DefaultStatePath(t *testing.T) {
	path := config.Client{}.GetStatePath()
	require.Contains(t, path, ".arcash")
	require.Contains(t, path, "state.db")
}
