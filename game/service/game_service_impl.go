package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/statelessgames/tictactoe/game/engine"
	"github.com/statelessgames/tictactoe/game/session"
)

// saveRetries bounds how many times a write operation reloads and replays
// after losing a conditional save to a concurrent writer.
const saveRetries = 3

// gameServiceImpl implements the GameService interface over a session.Store.
type gameServiceImpl struct {
	store  session.Store
	logger *zap.Logger
}

// NewGameService creates a new game service backed by the given store.
func NewGameService(store session.Store, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{store: store, logger: logger}
}

// CreateGame creates a fresh game under a new opaque ID.
func (s *gameServiceImpl) CreateGame(ctx context.Context) (*GameInfo, error) {
	id := uuid.NewString()
	rec, err := s.store.Save(ctx, id, session.NewRecord(engine.NewGame()))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.logger.Info("game created", zap.String("game_id", id))
	return gameInfo(id, rec), nil
}

// GetGame retrieves the current state of a game.
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	rec, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return gameInfo(gameID, rec), nil
}

// GetOrCreateGame retrieves a game, creating it under the given ID when it
// does not exist yet. This backs the single-game legacy mode, where every
// request targets one fixed ID.
func (s *gameServiceImpl) GetOrCreateGame(ctx context.Context, gameID string) (*GameInfo, error) {
	info, err := s.GetGame(ctx, gameID)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, err
	}

	rec, err := s.store.Save(ctx, gameID, session.NewRecord(engine.NewGame()))
	if errors.Is(err, session.ErrVersionConflict) {
		// Lost the creation race; the other writer's game is fine.
		return s.GetGame(ctx, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.logger.Info("game created", zap.String("game_id", gameID))
	return gameInfo(gameID, rec), nil
}

// ListGames returns all persisted games.
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	infos := make([]*GameInfo, 0, len(ids))
	for _, id := range ids {
		rec, err := s.store.Load(ctx, id)
		if errors.Is(err, session.ErrNotFound) {
			// Deleted between List and Load.
			continue
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, gameInfo(id, rec))
	}
	return infos, nil
}

// DeleteGame removes a game from the store.
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	if err := s.store.Delete(ctx, gameID); err != nil {
		return err
	}
	s.logger.Info("game deleted", zap.String("game_id", gameID))
	return nil
}

// ResetGame replaces an existing game with a fresh one under the same ID.
// Role bindings are cleared; players must rejoin.
func (s *gameServiceImpl) ResetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	var rec session.Record
	err := s.withRetries(ctx, gameID, func(loaded session.Record) (session.Record, error) {
		return loaded.WithGame(loaded.Game().Reset()), nil
	}, &rec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("game reset", zap.String("game_id", gameID))
	return gameInfo(gameID, rec), nil
}

// JoinGame mints a fresh token and binds it to the first open player slot.
// When both slots are taken the caller is a spectator, nothing is saved,
// and no token is handed out.
func (s *gameServiceImpl) JoinGame(ctx context.Context, gameID string) (*JoinResult, error) {
	var role engine.Role
	var token string

	var rec session.Record
	err := s.withRetries(ctx, gameID, func(loaded session.Record) (session.Record, error) {
		token = uuid.NewString()
		var g engine.Game
		g, role = loaded.Game().AssignRole(token)
		if role == engine.RoleSpectator {
			token = ""
			return loaded, errSkipSave
		}
		return loaded.WithGame(g), nil
	}, &rec)
	if err != nil && !errors.Is(err, errSkipSave) {
		return nil, err
	}

	s.logger.Info("game joined",
		zap.String("game_id", gameID),
		zap.String("role", string(role)))
	return &JoinResult{GameID: gameID, Role: string(role), Token: token}, nil
}

// Move resolves the caller's token to a role and applies the move. Engine
// validation errors pass through typed so transports can map them.
func (s *gameServiceImpl) Move(ctx context.Context, gameID, token string, cell int) (*GameInfo, error) {
	var rec session.Record
	err := s.withRetries(ctx, gameID, func(loaded session.Record) (session.Record, error) {
		g := loaded.Game()
		g, err := g.ApplyMove(g.RoleFor(token), cell)
		if err != nil {
			return loaded, err
		}
		return loaded.WithGame(g), nil
	}, &rec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("move applied",
		zap.String("game_id", gameID),
		zap.Int("cell", cell),
		zap.String("outcome", string(rec.Outcome)))
	return gameInfo(gameID, rec), nil
}

// Ping reports whether the backing store is reachable.
func (s *gameServiceImpl) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// errSkipSave signals that a mutation decided not to persist anything.
var errSkipSave = errors.New("skip save")

// withRetries runs one load-mutate-save cycle, replaying the mutation
// against fresh state when the conditional save loses to a concurrent
// writer. The mutation must revalidate on every attempt since the loaded
// state changes between attempts.
func (s *gameServiceImpl) withRetries(ctx context.Context, gameID string, mutate func(session.Record) (session.Record, error), out *session.Record) error {
	for attempt := 0; attempt < saveRetries; attempt++ {
		loaded, err := s.store.Load(ctx, gameID)
		if err != nil {
			return err
		}

		next, err := mutate(loaded)
		if errors.Is(err, errSkipSave) {
			*out = loaded
			return err
		}
		if err != nil {
			return err
		}

		saved, err := s.store.Save(ctx, gameID, next)
		if errors.Is(err, session.ErrVersionConflict) {
			s.logger.Debug("conditional save lost, retrying",
				zap.String("game_id", gameID),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return err
		}

		*out = saved
		return nil
	}
	return fmt.Errorf("game %s: %w", gameID, session.ErrVersionConflict)
}

func gameInfo(id string, rec session.Record) *GameInfo {
	return &GameInfo{
		ID:        id,
		State:     NewGameView(rec.Game()),
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
