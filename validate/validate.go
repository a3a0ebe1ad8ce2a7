// Command validate checks persisted game record JSON files, as written by
// the file store, for invariant violations. It checks:
//   - JSON structure and allowed cell values ("", "X", "O")
//   - Mark balance: equal X and O counts, or exactly one more X
//   - Stored outcome agrees with re-evaluating the board
//   - Turn marker is X or O
//   - Token slots hold distinct tokens when both are assigned
//
// Usage: validate [dir]   (default "games")
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/statelessgames/tictactoe/game/engine"
	"github.com/statelessgames/tictactoe/game/session"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateRecord loads and validates a single game record file.
func validateRecord(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}
	fail := func(format string, args ...interface{}) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fail("Failed to read file: %v", err)
		return result
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		fail("Invalid JSON: %v", err)
		return result
	}

	checkRecord(rec, fail)
	return result
}

// checkRecord applies the invariant checks to a decoded record.
func checkRecord(rec session.Record, fail func(string, ...interface{})) {
	countX, countO := 0, 0
	for i, cell := range rec.Board {
		switch cell {
		case engine.Empty:
		case engine.X:
			countX++
		case engine.O:
			countO++
		default:
			fail("Invalid cell value %q at index %d", cell, i)
		}
	}

	// X always moves first, so X is never behind and never two ahead.
	if countX != countO && countX != countO+1 {
		fail("Illegal mark balance: %d X vs %d O", countX, countO)
	}

	if rec.Turn != engine.X && rec.Turn != engine.O {
		fail("Invalid turn marker %q", rec.Turn)
	}

	if got := engine.Evaluate(rec.Board); got != rec.Outcome {
		fail("Stored outcome %q disagrees with board evaluation %q", rec.Outcome, got)
	}

	if rec.TokenX != "" && rec.TokenX == rec.TokenO {
		fail("Both role slots hold the same token")
	}

	if rec.Version < 1 {
		fail("Persisted record has version %d, expected >= 1", rec.Version)
	}
}

func main() {
	dir := "games"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read directory %s: %v\n", dir, err)
		os.Exit(1)
	}

	invalid := 0
	checked := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		checked++

		result := validateRecord(filepath.Join(dir, entry.Name()))
		if result.Valid {
			fmt.Printf("OK   %s\n", result.File)
			continue
		}
		invalid++
		fmt.Printf("FAIL %s\n", result.File)
		for _, msg := range result.Errors {
			fmt.Printf("     - %s\n", msg)
		}
	}

	fmt.Printf("\nChecked %d records, %d invalid\n", checked, invalid)
	if invalid > 0 {
		os.Exit(1)
	}
}
