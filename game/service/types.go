package service

import (
	"time"

	"github.com/statelessgames/tictactoe/game/engine"
)

// GameView is the externally visible state of a game. Role tokens are
// never part of a view; they are only returned once, from join.
type GameView struct {
	Board   [engine.BoardCells]string `json:"board"`
	Current string                    `json:"current"`
	Winner  *string                   `json:"winner"`
}

// NewGameView projects engine state into the external representation:
// winner is null while the game is ongoing, otherwise "X", "O", or "DRAW".
func NewGameView(g engine.Game) *GameView {
	view := &GameView{Current: string(g.Turn)}
	for i, cell := range g.Board {
		view.Board[i] = string(cell)
	}
	if g.Outcome != engine.OutcomeNone {
		winner := string(g.Outcome)
		view.Winner = &winner
	}
	return view
}

// GameInfo describes a game to API callers: its ID, external state, and
// store bookkeeping.
type GameInfo struct {
	ID        string    `json:"id"`
	State     *GameView `json:"state"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JoinResult is returned from a successful join: the granted role and, for
// player roles, the capability token proving the claim. Spectators get an
// empty token.
type JoinResult struct {
	GameID string `json:"game_id"`
	Role   string `json:"role"`
	Token  string `json:"token,omitempty"`
}
