// Command tttctl is a small admin CLI over the REST API: create, inspect,
// join, play, reset, and delete games from the terminal.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "tttctl",
		Usage: "administer tic-tac-toe games over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080",
				Usage:   "base URL of the API server",
				Sources: cli.EnvVars("TTT_SERVER"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a new game",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(cmd, "POST", "/api/games", nil)
				},
			},
			{
				Name:      "state",
				Usage:     "show the current state of a game",
				ArgsUsage: "<game-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := gameID(cmd)
					if err != nil {
						return err
					}
					return call(cmd, "GET", "/api/games/"+id, nil)
				},
			},
			{
				Name:  "list",
				Usage: "list all games",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(cmd, "GET", "/api/games", nil)
				},
			},
			{
				Name:      "join",
				Usage:     "claim a player seat; prints role and token",
				ArgsUsage: "<game-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := gameID(cmd)
					if err != nil {
						return err
					}
					return call(cmd, "POST", "/api/games/"+id+"/join", nil)
				},
			},
			{
				Name:      "move",
				Usage:     "play a cell",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "role token from join", Required: true},
					&cli.IntFlag{Name: "cell", Usage: "cell index 0-8", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := gameID(cmd)
					if err != nil {
						return err
					}
					body := map[string]interface{}{
						"token": cmd.String("token"),
						"cell":  cmd.Int("cell"),
					}
					return call(cmd, "POST", "/api/games/"+id+"/move", body)
				},
			},
			{
				Name:      "reset",
				Usage:     "reset a game to a fresh board",
				ArgsUsage: "<game-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := gameID(cmd)
					if err != nil {
						return err
					}
					return call(cmd, "POST", "/api/games/"+id+"/reset", nil)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a game",
				ArgsUsage: "<game-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := gameID(cmd)
					if err != nil {
						return err
					}
					return call(cmd, "DELETE", "/api/games/"+id, nil)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func gameID(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", fmt.Errorf("game ID argument is required")
	}
	return id, nil
}

// call performs the HTTP request and pretty-prints the JSON response.
func call(cmd *cli.Command, method, path string, body interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, cmd.String("server")+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Not JSON; print as-is.
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
