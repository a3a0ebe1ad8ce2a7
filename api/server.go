package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/statelessgames/tictactoe/game/engine"
	"github.com/statelessgames/tictactoe/game/service"
	"github.com/statelessgames/tictactoe/game/session"
)

// Server represents the REST API server.
type Server struct {
	service      service.GameService
	router       *mux.Router
	logger       *zap.Logger
	legacyGameID string
}

// Option configures the server.
type Option func(*Server)

// WithLegacyGame mounts the single-game /api/game routes bound to the given
// fixed game ID, created on first touch. This reproduces the old
// one-global-game behavior as a plain server configuration.
func WithLegacyGame(gameID string) Option {
	return func(s *Server) {
		s.legacyGameID = gameID
	}
}

// NewServer creates a new API server.
func NewServer(gameService service.GameService, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		router:  mux.NewRouter(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game lifecycle
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")

	// Game operations
	api.HandleFunc("/games/{id}/join", s.handleJoinGame).Methods("POST")
	api.HandleFunc("/games/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/games/{id}/reset", s.handleResetGame).Methods("POST")

	// Legacy single-game surface: same handlers, fixed ID.
	if s.legacyGameID != "" {
		api.HandleFunc("/game", s.handleLegacyGetGame).Methods("GET")
		api.HandleFunc("/game/join", s.legacyHandler(s.handleJoinGame)).Methods("POST")
		api.HandleFunc("/game/move", s.legacyHandler(s.handleMove)).Methods("POST")
		api.HandleFunc("/game/reset", s.legacyHandler(s.handleResetGame)).Methods("POST")
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the domain error taxonomy onto HTTP status codes.
// Authorization failures (not a player, out of turn) are 403, validation
// failures 400, conflicts with current game state 409, and infrastructure
// faults 502/503 so clients can tell their mistakes from ours.
func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotAPlayer), errors.Is(err, engine.ErrOutOfTurn):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrInvalidIndex):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrCellOccupied), errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, session.ErrVersionConflict):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrCorrupt):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= 500 {
		s.logger.Error("request failed", zap.Error(err))
	}
	respondError(w, status, err.Error())
}

// Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.CreateGame(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListGames(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(infos),
		"games": infos,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	info, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.DeleteGame(r.Context(), gameID); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "game deleted"})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.JoinGame(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		Token string `json:"token"`
		Cell  *int   `json:"cell"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Cell == nil {
		respondError(w, http.StatusBadRequest, "cell is required")
		return
	}

	info, err := s.service.Move(r.Context(), gameID, req.Token, *req.Cell)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	info, err := s.service.ResetGame(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// handleLegacyGetGame serves GET /api/game with get-or-create semantics so
// the fixed game always exists once touched.
func (s *Server) handleLegacyGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetOrCreateGame(r.Context(), s.legacyGameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// legacyHandler rewrites a no-ID legacy request onto the fixed game ID and
// delegates to the multi-game handler, creating the game on first touch.
func (s *Server) legacyHandler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.service.GetOrCreateGame(r.Context(), s.legacyGameID); err != nil {
			s.respondServiceError(w, err)
			return
		}
		next(w, mux.SetURLVars(r, map[string]string{"id": s.legacyGameID}))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
