package service

import (
	"context"
)

// GameService defines all game-related operations exposed to transports.
// Every write performs one load-mutate-save cycle against the store; the
// service holds no game state of its own between requests.
type GameService interface {
	// Game lifecycle
	CreateGame(ctx context.Context) (*GameInfo, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)
	GetOrCreateGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	DeleteGame(ctx context.Context, gameID string) error
	ResetGame(ctx context.Context, gameID string) (*GameInfo, error)

	// Game operations
	JoinGame(ctx context.Context, gameID string) (*JoinResult, error)
	Move(ctx context.Context, gameID, token string, cell int) (*GameInfo, error)

	// Health
	Ping(ctx context.Context) error
}
