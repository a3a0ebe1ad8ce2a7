// Package mcp exposes the game API as Model Context Protocol tools.
//
// The package is a thin proxy: every tool call is translated into an HTTP
// request against the REST API rather than talking to the game service
// directly, so the MCP surface and any other client always observe the
// same behavior.
//
// Tools: create_game, list_games, game_state, join_game, move, reset_game.
//
// The server can be attached to an HTTP endpoint via GetMCPServer or run
// over stdio with server.ServeStdio.
package mcp
