package config

import (
	"time"
)

// SecurityConfig is the token and session tuning surface. Loaded once at
// process start; rotating the signing secret or adjusting a TTL is a config
// change, never a code change.
type SecurityConfig interface {
	GetJWTSecret() string
	GetJWTIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetCleanupInterval() time.Duration
}

const (
	jwtSecretVar       = "JWT_SECRET"
	jwtIssuerVar       = "JWT_ISSUER"
	accessExpiryVar    = "ACCESS_TOKEN_TTL"
	refreshExpiryVar   = "REFRESH_TOKEN_TTL"
	cleanupIntervalVar = "CLEANUP_INTERVAL"

	defaultAccessExpiry    = 15 * time.Minute
	defaultRefreshExpiry   = 7 * 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetJWTSecret() string {
	return GetEnv(jwtSecretVar, "")
}

func (Security) GetJWTIssuer() string {
	return GetEnv(jwtIssuerVar, "hospital-auth")
}

func (Security) GetAccessTokenExpiry() time.Duration {
	return getDuration(accessExpiryVar, defaultAccessExpiry)
}

func (Security) GetRefreshTokenExpiry() time.Duration {
	return getDuration(refreshExpiryVar, defaultRefreshExpiry)
}

func (Security) GetCleanupInterval() time.Duration {
	return getDuration(cleanupIntervalVar, defaultCleanupInterval)
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
