package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/statelessgames/tictactoe/game/engine"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(rdb, ttl)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	runStoreTests(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	if _, err := store.Save(ctx, "g1", NewRecord(engine.NewGame())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ttl := mr.TTL(gameKey("g1")); ttl != time.Hour {
		t.Errorf("Expected 1h TTL on the record key, got %v", ttl)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t, 0)

	mr.Set(gameKey("bad"), "{not json")

	_, err := store.Load(context.Background(), "bad")
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt, got %v", err)
	}
}

func TestRedisStore_ConcurrentSavesOneWinner(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	ctx := context.Background()

	if _, err := store.Save(ctx, "g1", NewRecord(engine.NewGame())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Both writers apply a move against the same loaded record.
	gx, err := loaded.Game().ApplyMove(engine.RoleX, 0)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	gy, err := loaded.Game().ApplyMove(engine.RoleX, 1)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	if _, err := store.Save(ctx, "g1", loaded.WithGame(gx)); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if _, err := store.Save(ctx, "g1", loaded.WithGame(gy)); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("Expected second save to lose with ErrVersionConflict, got %v", err)
	}

	// The first writer's board is what persisted.
	final, err := store.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if final.Board[0] != engine.X || final.Board[1] != engine.Empty {
		t.Errorf("Expected first writer's move to persist, got board %v", final.Board)
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, err := ParseRedisURL("redis://:secret@localhost:6379/2")
	if err != nil {
		t.Fatalf("ParseRedisURL failed: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Errorf("Addr = %q", opts.Addr)
	}
	if opts.Password != "secret" {
		t.Errorf("Password = %q", opts.Password)
	}
	if opts.DB != 2 {
		t.Errorf("DB = %d", opts.DB)
	}

	if _, err := ParseRedisURL("http://localhost"); err == nil {
		t.Error("Expected error for non-redis scheme")
	}
}
