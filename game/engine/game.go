package engine

// Game is the complete state of one session: the board, whose move is next,
// the terminal outcome (if any), and the capability tokens bound to each
// player slot. An empty token string means the slot is unassigned.
//
// Game is a value type. Every transition takes a value receiver and returns
// a new Game; callers persist the returned value. No transition mutates the
// receiver, which keeps concurrent request handlers from aliasing shared
// state.
type Game struct {
	Board   Board
	Turn    Mark
	Outcome Outcome
	TokenX  string
	TokenO  string
}

// NewGame returns a fresh game: empty board, X to move, no outcome, both
// player slots unassigned.
func NewGame() Game {
	return Game{Turn: X}
}

// AssignRole binds the supplied token to the first unassigned player slot,
// X before O, and returns the updated game with the role granted. When both
// slots are taken the game is returned unchanged with RoleSpectator, and the
// token is not consumed. A token already bound to one slot is refused for
// the other, so a single token can never hold both roles.
func (g Game) AssignRole(token string) (Game, Role) {
	if token == "" {
		return g, RoleSpectator
	}
	if g.TokenX == "" {
		g.TokenX = token
		return g, RoleX
	}
	if g.TokenO == "" && token != g.TokenX {
		g.TokenO = token
		return g, RoleO
	}
	return g, RoleSpectator
}

// RoleFor resolves a token to the role it holds. Only a non-empty exact
// match grants a player role; everything else is a spectator.
func (g Game) RoleFor(token string) Role {
	if token == "" {
		return RoleSpectator
	}
	switch token {
	case g.TokenX:
		return RoleX
	case g.TokenO:
		return RoleO
	}
	return RoleSpectator
}

// ApplyMove plays the given cell for role and returns the updated game.
// On any validation failure the receiver is returned unchanged alongside
// the error.
//
// Standing checks (not-a-player, out-of-turn) run before board checks so an
// illegitimate caller never learns why a move would be illegal on the board.
func (g Game) ApplyMove(role Role, cell int) (Game, error) {
	if role != RoleX && role != RoleO {
		return g, ErrNotAPlayer
	}
	if role.Mark() != g.Turn {
		return g, ErrOutOfTurn
	}
	if g.Outcome != OutcomeNone {
		return g, ErrGameOver
	}
	if cell < 0 || cell >= BoardCells {
		return g, ErrInvalidIndex
	}
	if g.Board[cell] != Empty {
		return g, ErrCellOccupied
	}

	g.Board[cell] = g.Turn
	g.Outcome = Evaluate(g.Board)
	if g.Outcome == OutcomeNone {
		g.Turn = g.Turn.Opponent()
	}
	return g, nil
}

// Reset returns a completely fresh game. Role bindings are cleared; players
// must rejoin to receive new tokens.
func (g Game) Reset() Game {
	return NewGame()
}
