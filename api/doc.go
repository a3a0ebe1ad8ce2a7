// Package api provides the REST interface over the game service.
//
// Routes:
//
//	POST   /api/games            create a game
//	GET    /api/games            list games
//	GET    /api/games/{id}       current state
//	DELETE /api/games/{id}       delete a game
//	POST   /api/games/{id}/join  claim a player role, returns {role, token}
//	POST   /api/games/{id}/move  body {token, cell}, returns updated state
//	POST   /api/games/{id}/reset replace with a fresh game
//	GET    /healthz              store reachability
//
// When a legacy game ID is configured the same operations are additionally
// mounted under /api/game without an ID, pinned to that one game.
//
// Status Mapping:
//
// Unknown game 404; not-a-player and out-of-turn 403; invalid cell index
// 400; occupied cell and finished game 409; storage faults 5xx. Error
// bodies are {"error": "..."}.
package api
