package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentVariables_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("HANDSHAKE_RATE_LIMIT", "")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "30-M", cfg.HandshakeRateLimit)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvironmentVariables_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadEnvironmentVariables()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadEnvironmentVariables_AllowedOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestServerFlagsOverrideEnvironment(t *testing.T) {
	cfg := &Config{Port: "8080", HandshakeRateLimit: "30-M"}

	flags, err := ParseServerFlags([]string{"-port", "9090"})
	require.NoError(t, err)

	flags.Apply(cfg)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "30-M", cfg.HandshakeRateLimit)
}

func TestServerFlagsRejectUnknown(t *testing.T) {
	_, err := ParseServerFlags([]string{"-nope"})
	assert.Error(t, err)
}
