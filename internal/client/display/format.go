package display

import (
	"fmt"

	"checkers/internal/core"
	"checkers/internal/game"
)

// FormatResult describes an applied move in one line
func FormatResult(r game.Result) string {
	s := fmt.Sprintf("%s %s -> %s", ColorForTurn(r.Player), r.Move.From, r.Move.To)
	if r.Move.Capture != nil {
		s += Paint(Magenta, fmt.Sprintf(" captures %s", *r.Move.Capture))
	}
	if r.Promoted {
		s += Paint(Yellow, " and is crowned")
	}
	if r.ContinueJump {
		s += ", must jump again"
	}
	return s
}

// StatusLine summarizes whose turn it is or who won
func StatusLine(v game.View) string {
	if v.State.IsOver() {
		return Paint(Bold, fmt.Sprintf("Game over: %s wins after %d moves", ColorForTurn(v.Winner), v.MoveCount))
	}

	redMen, redKings := v.Board.Count(core.Red)
	blackMen, blackKings := v.Board.Count(core.Black)
	s := fmt.Sprintf("%s to move (%s)  red %d+%dK  black %d+%dK",
		ColorForTurn(v.Turn), v.Mode, redMen, redKings, blackMen, blackKings)
	if v.PendingJump != nil {
		s += Paint(Yellow, fmt.Sprintf("  jump pending from %s", *v.PendingJump))
	}
	return s
}
