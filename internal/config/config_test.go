package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/voltgrid")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, 120*time.Second, cfg.JWTExpiration())
	assert.Equal(t, time.Hour, cfg.TokenCacheTTL())
	assert.Empty(t, cfg.JWT.Secret, "secret is optional at boot")
	assert.Empty(t, cfg.API.Key, "api key is optional at boot")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/voltgrid")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_SECONDS", "300")
	t.Setenv("API_KEY", "key")
	t.Setenv("TOKEN_CACHE_TTL_SECONDS", "0")
	t.Setenv("TOKEN_CACHE_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 5*time.Minute, cfg.JWTExpiration())
	assert.Equal(t, "key", cfg.API.Key)
	assert.Zero(t, cfg.TokenCacheTTL(), "zero means no eviction")
	assert.Equal(t, "localhost:6379", cfg.TokenCache.RedisAddr)
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
http:
  port: "7070"
database:
  dsn: postgres://yaml-host/voltgrid
jwt:
  expiresInSeconds: 60
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)

	// env wins over the file, the file wins over defaults
	assert.Equal(t, ":9191", cfg.HTTPAddress())
	assert.Equal(t, "postgres://yaml-host/voltgrid", cfg.Database.DSN)
	assert.Equal(t, time.Minute, cfg.JWTExpiration())
}
