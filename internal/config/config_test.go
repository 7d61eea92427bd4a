package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hospitalmgmt/auth-service/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("CLEANUP_INTERVAL", "")

	cfg := config.New()
	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "hospital-auth", cfg.GetJWTIssuer())
	require.Equal(t, 15*time.Minute, cfg.GetAccessTokenExpiry())
	require.Equal(t, 7*24*time.Hour, cfg.GetRefreshTokenExpiry())
	require.Equal(t, time.Hour, cfg.GetCleanupInterval())
}

func TestPortIsColonPrefixed(t *testing.T) {
	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", config.New().GetPort())

	t.Setenv("PORT", ":7070")
	require.Equal(t, ":7070", config.New().GetPort())
}

func TestDurationParsing(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	require.Equal(t, 30*time.Minute, config.New().GetAccessTokenExpiry())

	// Malformed and non-positive values fall back to the default.
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	require.Equal(t, 15*time.Minute, config.New().GetAccessTokenExpiry())

	t.Setenv("ACCESS_TOKEN_TTL", "-5m")
	require.Equal(t, 15*time.Minute, config.New().GetAccessTokenExpiry())
}
