package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backend names accepted in configuration.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the process configuration. Every field comes from the
// environment; command-line flags may override individual values after
// loading.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// Store selects the game store backend: memory, file, or redis.
	Store string `env:"STORE" envDefault:"memory"`

	// RedisURL is the redis:// URL used when Store is redis.
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// GamesDir is the directory used when Store is file.
	GamesDir string `env:"GAMES_DIR" envDefault:"games"`

	// GameTTL expires idle games in the redis store; zero keeps them
	// forever.
	GameTTL time.Duration `env:"GAME_TTL"`

	// LegacyGameID, when set, mounts the single-game /api/game routes
	// pinned to this fixed ID.
	LegacyGameID string `env:"LEGACY_GAME_ID"`

	// Debug switches logging to the development encoder.
	Debug bool `env:"DEBUG"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store backend %q (want %s, %s, or %s)",
			c.Store, StoreMemory, StoreFile, StoreRedis)
	}
	if c.Store == StoreRedis && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis store")
	}
	if c.Store == StoreFile && c.GamesDir == "" {
		return fmt.Errorf("GAMES_DIR is required for the file store")
	}
	return nil
}
