package main

import (
	"testing"

	"github.com/statelessgames/tictactoe/config"
	"github.com/statelessgames/tictactoe/game/session"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestListenHost(t *testing.T) {
	cases := []struct {
		addr string
		want string
	}{
		{":8080", "localhost:8080"},
		{"0.0.0.0:8080", "localhost:8080"},
		{"127.0.0.1:9090", "127.0.0.1:9090"},
		{"example.com:80", "example.com:80"},
	}
	for _, c := range cases {
		if got := listenHost(c.addr); got != c.want {
			t.Errorf("listenHost(%q) = %q, want %q", c.addr, got, c.want)
		}
	}
}

func TestNewStore_Memory(t *testing.T) {
	store, err := newStore(&config.Config{Store: config.StoreMemory})
	if err != nil {
		t.Fatalf("newStore failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*session.MemoryStore); !ok {
		t.Errorf("Expected *session.MemoryStore, got %T", store)
	}
}

func TestNewStore_File(t *testing.T) {
	store, err := newStore(&config.Config{Store: config.StoreFile, GamesDir: t.TempDir()})
	if err != nil {
		t.Fatalf("newStore failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*session.FileStore); !ok {
		t.Errorf("Expected *session.FileStore, got %T", store)
	}
}

func TestNewStore_Unknown(t *testing.T) {
	if _, err := newStore(&config.Config{Store: "etcd"}); err == nil {
		t.Error("Expected error for unknown store backend")
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	origAddr, origStore, origDebug := *addr, *storeKind, *debug
	defer func() { *addr, *storeKind, *debug = origAddr, origStore, origDebug }()

	*addr = ":9999"
	*storeKind = "file"
	*debug = true

	cfg := &config.Config{Addr: ":8080", Store: config.StoreMemory}
	applyFlagOverrides(cfg)

	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store != config.StoreFile {
		t.Errorf("Store = %q", cfg.Store)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

// main(), runHTTPServer(), and runStdioMCP() start servers and block; they
// are exercised end to end by the api and transport/mcp test suites instead.
