package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents service configuration loaded from YAML/env.
//
// The JWT secret and API key are optional at boot: the guards report
// their absence per request instead of refusing to start.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
	} `yaml:"database"`
	JWT struct {
		Secret           string `yaml:"secret" env:"JWT_SECRET"`
		ExpiresInSeconds int    `yaml:"expiresInSeconds" env:"JWT_EXPIRES_SECONDS"`
	} `yaml:"jwt"`
	API struct {
		Key string `yaml:"key" env:"API_KEY"`
	} `yaml:"api"`
	TokenCache struct {
		TTLSeconds    int    `yaml:"ttlSeconds" env:"TOKEN_CACHE_TTL_SECONDS"`
		RedisAddr     string `yaml:"redisAddr" env:"TOKEN_CACHE_REDIS_ADDR"`
		RedisPassword string `yaml:"redisPassword" env:"TOKEN_CACHE_REDIS_PASSWORD"`
	} `yaml:"tokenCache"`
}

// Load reads configuration using the yaml/env loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.JWT.ExpiresInSeconds = 120
	cfg.TokenCache.TTLSeconds = 3600

	if err := loadInto(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.ExpiresInSeconds <= 0 {
		cfg.JWT.ExpiresInSeconds = 120
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured token lifetime to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.JWT.ExpiresInSeconds) * time.Second
}

// TokenCacheTTL converts the configured cache eviction window to
// duration; zero means entries stay until explicitly revoked.
func (c *Config) TokenCacheTTL() time.Duration {
	if c.TokenCache.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TokenCache.TTLSeconds) * time.Second
}
