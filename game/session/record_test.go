package session

import (
	"encoding/json"
	"testing"

	"github.com/statelessgames/tictactoe/game/engine"
)

func playedGame(t *testing.T) engine.Game {
	t.Helper()
	g := engine.NewGame()
	g, _ = g.AssignRole("token-x")
	g, _ = g.AssignRole("token-o")
	var err error
	if g, err = g.ApplyMove(engine.RoleX, 4); err != nil {
		t.Fatalf("setup move failed: %v", err)
	}
	if g, err = g.ApplyMove(engine.RoleO, 0); err != nil {
		t.Fatalf("setup move failed: %v", err)
	}
	return g
}

func TestRecord_RoundTrip(t *testing.T) {
	g := playedGame(t)
	rec := NewRecord(g)
	rec.Version = 7

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Game() != g {
		t.Errorf("Round trip lost game state: got %+v, want %+v", decoded.Game(), g)
	}
	if decoded.Version != 7 {
		t.Errorf("Round trip lost version: got %d", decoded.Version)
	}
}

func TestRecord_RoundTripUnassignedTokens(t *testing.T) {
	g := engine.NewGame()
	rec := NewRecord(g)

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Game() != g {
		t.Errorf("Expected unassigned tokens to survive the round trip")
	}
}

func TestRecord_WithGamePreservesBookkeeping(t *testing.T) {
	rec := NewRecord(engine.NewGame())
	rec.Version = 3
	created := rec.CreatedAt

	updated := rec.WithGame(playedGame(t))
	if updated.Version != 3 {
		t.Errorf("WithGame changed version: got %d", updated.Version)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Error("WithGame changed CreatedAt")
	}
}
