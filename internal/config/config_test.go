package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "APP_PORT", "AUTH_JWT_SECRET", "AUTH_TOKEN_TTL_HOURS",
		"REDIS_ADDR", "REDIS_DB", "CACHE_TASK_LIST_TTL_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "supportdesk", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, InsecureDevSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.UsingInsecureSecret())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, time.Minute, cfg.Cache.TaskListTTL())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "prod-secret")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "2")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Auth.UsingInsecureSecret())
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestMalformedIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "soon")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
}

func TestTokenTTLGuardsNonPositive(t *testing.T) {
	c := AuthConfig{TokenTTLHours: 0}
	assert.Equal(t, 24*time.Hour, c.TokenTTL())
	c.TokenTTLHours = -5
	assert.Equal(t, 24*time.Hour, c.TokenTTL())
}
