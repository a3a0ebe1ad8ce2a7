package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q", cfg.Store)
	}
	if cfg.LegacyGameID != "" {
		t.Errorf("LegacyGameID = %q", cfg.LegacyGameID)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("STORE", "redis")
	t.Setenv("REDIS_URL", "redis://example:6379/1")
	t.Setenv("GAME_TTL", "24h")
	t.Setenv("LEGACY_GAME_ID", "default")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store != StoreRedis {
		t.Errorf("Store = %q", cfg.Store)
	}
	if cfg.RedisURL != "redis://example:6379/1" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.GameTTL != 24*time.Hour {
		t.Errorf("GameTTL = %v", cfg.GameTTL)
	}
	if cfg.LegacyGameID != "default" {
		t.Errorf("LegacyGameID = %q", cfg.LegacyGameID)
	}
}

func TestValidate_UnknownStore(t *testing.T) {
	cfg := &Config{Store: "cassandra"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown store backend")
	}
}

func TestValidate_RedisRequiresURL(t *testing.T) {
	cfg := &Config{Store: StoreRedis}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for redis store without URL")
	}
}
