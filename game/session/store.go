package session

import (
	"context"
	"errors"
	"time"

	"github.com/statelessgames/tictactoe/game/engine"
)

var (
	// ErrNotFound reports that no record exists for the given game ID.
	ErrNotFound = errors.New("game not found")

	// ErrCorrupt reports that a record exists but could not be decoded.
	// It is deliberately distinct from ErrNotFound: absence is a caller
	// mistake, corruption is an infrastructure fault.
	ErrCorrupt = errors.New("game record is corrupt")

	// ErrVersionConflict reports that a conditional save lost the race:
	// the stored version no longer matches the version the caller loaded.
	ErrVersionConflict = errors.New("game record was modified concurrently")
)

// Store persists game records addressed by an opaque game ID. The store is
// dumb on purpose: it validates nothing about game legality and enforces no
// invariants beyond the optimistic version check. All rule enforcement
// lives in the engine.
type Store interface {
	// Load retrieves the record for id, or ErrNotFound.
	Load(ctx context.Context, id string) (Record, error)

	// Save writes rec under id on the condition that the stored version
	// still equals rec.Version (0 for a record that must not exist yet).
	// On success it returns the stored record with the version bumped.
	// A lost race returns ErrVersionConflict; updating a missing record
	// returns ErrNotFound.
	Save(ctx context.Context, id string, rec Record) (Record, error)

	// Delete removes the record for id, or ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all persisted games.
	List(ctx context.Context) ([]string, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Record is the persisted form of one game. It is a total, lossless
// encoding of the engine state plus bookkeeping the store layer owns:
// an optimistic version counter and timestamps.
type Record struct {
	Version   int64          `json:"version"`
	Board     engine.Board   `json:"board"`
	Turn      engine.Mark    `json:"turn"`
	Outcome   engine.Outcome `json:"outcome,omitempty"`
	TokenX    string         `json:"token_x,omitempty"`
	TokenO    string         `json:"token_o,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewRecord wraps a fresh game into an unversioned record ready for its
// first Save.
func NewRecord(g engine.Game) Record {
	now := time.Now().UTC()
	rec := Record{CreatedAt: now, UpdatedAt: now}
	return rec.WithGame(g)
}

// Game reconstructs the engine state from the record.
func (r Record) Game() engine.Game {
	return engine.Game{
		Board:   r.Board,
		Turn:    r.Turn,
		Outcome: r.Outcome,
		TokenX:  r.TokenX,
		TokenO:  r.TokenO,
	}
}

// WithGame returns a copy of the record carrying the given game state.
// Version and CreatedAt are preserved; UpdatedAt is refreshed.
func (r Record) WithGame(g engine.Game) Record {
	r.Board = g.Board
	r.Turn = g.Turn
	r.Outcome = g.Outcome
	r.TokenX = g.TokenX
	r.TokenO = g.TokenO
	r.UpdatedAt = time.Now().UTC()
	return r
}
