package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/statelessgames/tictactoe/game/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for stdio or HTTP serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tic-Tac-Toe Backend",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tic-Tac-Toe Backend - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME RULES:
3x3 board, cells indexed 0-8 row-major from the top left. X always moves
first. Three in a row, column, or diagonal wins; a full board without a
winner is a draw.

AVAILABLE TOOLS:
- create_game: Create a new game, returns its ID
- list_games: List all games
- game_state: Get the board, whose turn it is, and the winner
- join_game: Claim a player seat; returns your role and secret token
- move: Play a cell using your token
- reset_game: Wipe a game back to a fresh board

Keep your token from join_game: it is the only proof of your seat.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new tic-tac-toe game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current state of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Claim a player seat in a game; returns role and token",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleJoinGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Play a cell (0-8) using the token from join_game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"token": map[string]interface{}{
					"type":        "string",
					"description": "Role token from join_game",
				},
				"cell": map[string]interface{}{
					"type":        "number",
					"description": "Cell index 0-8, row-major from the top left",
				},
			},
			Required: []string{"game_id", "token", "cell"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset a game to a fresh board; players must rejoin",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleReset)
}

// apiCall performs an HTTP request against the REST API and decodes the
// response into result when non-nil.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.GameInfo
	if err := c.apiCall("POST", "/api/games", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\n\n%s", info.ID, formatState(info.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Games []*service.GameInfo `json:"games"`
	}
	if err := c.apiCall("GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Games (%d):\n\n", response.Count)
	for _, info := range response.Games {
		status := "in progress"
		if info.State != nil && info.State.Winner != nil {
			status = "finished: " + *info.State.Winner
		}
		result += fmt.Sprintf("- %s (%s)\n", info.ID, status)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var info service.GameInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s", gameID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(info.State)), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var join service.JoinResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/join", gameID), nil, &join); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if join.Role == "SPECTATOR" {
		return mcp.NewToolResultText("Both seats are taken; you are a spectator."), nil
	}
	result := fmt.Sprintf("You are %s.\nToken: %s\nKeep the token to play your moves.", join.Role, join.Token)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["token"].(string)
	cell, _ := args["cell"].(float64)

	body := map[string]interface{}{
		"token": token,
		"cell":  int(cell),
	}

	var info service.GameInfo
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/move", gameID), body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(info.State)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var info service.GameInfo
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/reset", gameID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game reset. Players must rejoin for new tokens.\n\n%s", formatState(info.State))
	return mcp.NewToolResultText(result), nil
}

// formatState renders the board and status as text for tool output.
func formatState(state *service.GameView) string {
	if state == nil {
		return "(no state)"
	}

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := state.Board[row*3+col]
			if cell == "" {
				cell = "."
			}
			sb.WriteString(cell)
			if col < 2 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	if state.Winner != nil {
		if *state.Winner == "DRAW" {
			sb.WriteString("Result: draw\n")
		} else {
			sb.WriteString(fmt.Sprintf("Result: %s wins\n", *state.Winner))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Next to move: %s\n", state.Current))
	}
	return sb.String()
}
