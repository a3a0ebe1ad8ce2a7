// Package engine provides the core game logic for the tic-tac-toe backend.
//
// The engine package implements the game mechanics including:
//   - Board representation and the eight-line outcome evaluator
//   - Turn order and move legality enforcement
//   - Role assignment and token-based role resolution
//   - One-way terminal outcome transitions
//
// Core Types:
//
// Game is the complete state of one session and is a pure value: every
// transition returns a new Game rather than mutating in place, which is
// what makes the request handlers safe to run in separate processes
// sharing only an external store. Board, Mark, Outcome, and Role are the
// supporting value types.
//
// Usage:
//
//	g := engine.NewGame()
//	g, role := g.AssignRole(token)
//
//	g, err := g.ApplyMove(role, 4)
//	if err != nil {
//		// move rejected, g unchanged
//	}
//
// Invariants:
//
// A cell once set is never cleared except by Reset. A terminal game rejects
// all further moves. At most one token occupies each player slot and a
// token can never hold both.
package engine
