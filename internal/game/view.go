package game

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// View is a read-only copy of a game for presentation
type View struct {
	Board       *board.Board
	Turn        core.Player
	Mode        core.Mode
	State       core.State
	PendingJump *board.Square
	MoveCount   int
	Winner      core.Player
	LastResult  *Result
}

// Snapshot copies the game so it can be read without holding its owner's lock
func (g *Game) Snapshot() View {
	v := View{
		Board:     g.board.Clone(),
		Turn:      g.turn,
		Mode:      g.mode,
		State:     g.state,
		MoveCount: g.moveCount,
	}
	if g.pending != nil {
		sq := *g.pending
		v.PendingJump = &sq
	}
	if g.lastResult != nil {
		r := *g.lastResult
		v.LastResult = &r
	}
	if g.state.IsOver() {
		v.Winner, _ = g.Winner()
	}
	return v
}

// Layout encodes the viewed position
func (v View) Layout() string {
	return v.Board.Layout(v.Turn)
}
