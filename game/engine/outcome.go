package engine

// lines enumerates the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate returns the outcome of a board: a win if any line holds three
// equal non-empty marks, a draw if the board is full without a winner, and
// OutcomeNone while the game is still ongoing. On a legally played board at
// most one symbol can have completed a line, so check order does not matter.
func Evaluate(b Board) Outcome {
	for _, line := range lines {
		m := b[line[0]]
		if m != Empty && m == b[line[1]] && m == b[line[2]] {
			return Outcome(m)
		}
	}
	for _, cell := range b {
		if cell == Empty {
			return OutcomeNone
		}
	}
	return OutcomeDraw
}
