package engine

import "testing"

func boardFrom(cells [9]string) Board {
	var b Board
	for i, c := range cells {
		b[i] = Mark(c)
	}
	return b
}

func TestEvaluate_EmptyBoard(t *testing.T) {
	if got := Evaluate(Board{}); got != OutcomeNone {
		t.Errorf("Expected ongoing outcome for empty board, got %q", got)
	}
}

func TestEvaluate_Lines(t *testing.T) {
	tests := []struct {
		name  string
		cells [9]string
		want  Outcome
	}{
		{"top row X", [9]string{"X", "X", "X", "O", "O", "", "", "", ""}, OutcomeX},
		{"middle row O", [9]string{"X", "", "X", "O", "O", "O", "X", "", ""}, OutcomeO},
		{"bottom row X", [9]string{"O", "O", "", "", "", "", "X", "X", "X"}, OutcomeX},
		{"left column X", [9]string{"X", "O", "", "X", "O", "", "X", "", ""}, OutcomeX},
		{"middle column O", [9]string{"X", "O", "", "X", "O", "", "", "O", "X"}, OutcomeO},
		{"right column X", [9]string{"", "O", "X", "", "O", "X", "O", "", "X"}, OutcomeX},
		{"main diagonal X", [9]string{"X", "O", "", "O", "X", "", "", "", "X"}, OutcomeX},
		{"anti diagonal O", [9]string{"X", "X", "O", "", "O", "", "O", "", "X"}, OutcomeO},
		{"ongoing", [9]string{"X", "O", "", "", "X", "", "", "", ""}, OutcomeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(boardFrom(tt.cells)); got != tt.want {
				t.Errorf("Evaluate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Draw(t *testing.T) {
	// Full board with no winning line.
	b := boardFrom([9]string{"X", "O", "X", "O", "X", "O", "O", "X", "O"})
	if got := Evaluate(b); got != OutcomeDraw {
		t.Errorf("Expected DRAW, got %q", got)
	}
}

func TestEvaluate_DrawRequiresFullBoard(t *testing.T) {
	// One empty cell left and no winner: still ongoing, never a draw.
	b := boardFrom([9]string{"X", "O", "X", "O", "X", "O", "O", "X", ""})
	if got := Evaluate(b); got != OutcomeNone {
		t.Errorf("Expected ongoing outcome with an empty cell, got %q", got)
	}
}
