package engine

import "errors"

// Mark represents the symbol occupying a board cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

// Outcome classifies a game as ongoing, won, or drawn.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeX    Outcome = "X"
	OutcomeO    Outcome = "O"
	OutcomeDraw Outcome = "DRAW"
)

// Role is a caller's standing within a game.
type Role string

const (
	RoleX         Role = "X"
	RoleO         Role = "O"
	RoleSpectator Role = "SPECTATOR"
)

// Mark returns the board mark a role plays with, or Empty for spectators.
func (r Role) Mark() Mark {
	switch r {
	case RoleX:
		return X
	case RoleO:
		return O
	}
	return Empty
}

// BoardCells is the number of cells on the fixed 3x3 board.
const BoardCells = 9

// Board is the ordered sequence of cells, row-major from the top left.
type Board [BoardCells]Mark

// Move validation errors, in the order ApplyMove checks them.
var (
	ErrNotAPlayer   = errors.New("caller is not a player in this game")
	ErrOutOfTurn    = errors.New("not this player's turn")
	ErrGameOver     = errors.New("game is already over")
	ErrInvalidIndex = errors.New("cell index must be between 0 and 8")
	ErrCellOccupied = errors.New("cell is already occupied")
)
