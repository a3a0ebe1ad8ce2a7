package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/statelessgames/tictactoe/game/engine"
)

func writeCorruptFile(t *testing.T, dir, id string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
}

// runStoreTests exercises the Store contract shared by all adapters.
func runStoreTests(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateAndLoad", func(t *testing.T) {
		g := engine.NewGame()
		saved, err := store.Save(ctx, "g1", NewRecord(g))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if saved.Version != 1 {
			t.Errorf("Expected version 1 after first save, got %d", saved.Version)
		}

		loaded, err := store.Load(ctx, "g1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Game() != g {
			t.Errorf("Loaded game differs: %+v", loaded.Game())
		}
	})

	t.Run("UpdateBumpsVersion", func(t *testing.T) {
		loaded, err := store.Load(ctx, "g1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		g, err := loaded.Game().ApplyMove(engine.RoleX, 0)
		if err != nil {
			t.Fatalf("ApplyMove failed: %v", err)
		}
		saved, err := store.Save(ctx, "g1", loaded.WithGame(g))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if saved.Version != loaded.Version+1 {
			t.Errorf("Expected version %d, got %d", loaded.Version+1, saved.Version)
		}
	})

	t.Run("StaleSaveConflicts", func(t *testing.T) {
		loaded, err := store.Load(ctx, "g1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		// First writer wins.
		if _, err := store.Save(ctx, "g1", loaded); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		// Second writer with the same loaded version loses.
		if _, err := store.Save(ctx, "g1", loaded); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("Expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("CreateExistingConflicts", func(t *testing.T) {
		_, err := store.Save(ctx, "g1", NewRecord(engine.NewGame()))
		if !errors.Is(err, ErrVersionConflict) {
			t.Errorf("Expected ErrVersionConflict creating over an existing game, got %v", err)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		rec := NewRecord(engine.NewGame())
		rec.Version = 5
		_, err := store.Save(ctx, "never-created", rec)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound updating a missing game, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if _, err := store.Save(ctx, "g2", NewRecord(engine.NewGame())); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		want := map[string]bool{"g1": true, "g2": true}
		if len(ids) != len(want) {
			t.Fatalf("Expected %d ids, got %v", len(want), ids)
		}
		for _, id := range ids {
			if !want[id] {
				t.Errorf("Unexpected id %q in List", id)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "g2"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "g2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, "g2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	runStoreTests(t, store)
}

func TestFileStore_CorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	writeCorruptFile(t, dir, "bad")

	_, err = store.Load(context.Background(), "bad")
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Corrupt record must not be reported as absent")
	}
}
