package display

import (
	"fmt"
	"io"
	"strings"

	"checkers/internal/board"
	"checkers/internal/core"
)

const header = "  0 1 2 3 4 5 6 7"

// Highlights marks squares of interest on a rendered board
type Highlights struct {
	Selected *board.Square
	Targets  []board.Square // Destinations of the selected piece
	Captured *board.Square  // Piece removed by the last move
}

func (h Highlights) isTarget(sq board.Square) bool {
	for _, t := range h.Targets {
		if t == sq {
			return true
		}
	}
	return false
}

// RenderBoard draws the board with colored pieces. Row 0 is Black's back
// row at the top; Red moves up the screen.
func RenderBoard(w io.Writer, b *board.Board, hl Highlights) {
	var sb strings.Builder
	sb.WriteString(Paint(Cyan, header) + "\n")

	for r := 0; r < board.Size; r++ {
		sb.WriteString(Paint(Cyan, fmt.Sprintf("%d ", r)))
		for c := 0; c < board.Size; c++ {
			sb.WriteString(cell(b, board.Sq(r, c), hl))
			sb.WriteByte(' ')
		}
		sb.WriteString(Paint(Cyan, fmt.Sprintf(" %d", r)) + "\n")
	}
	sb.WriteString(Paint(Cyan, header) + "\n")

	io.WriteString(w, sb.String())
}

func cell(b *board.Board, sq board.Square, hl Highlights) string {
	if !sq.Playable() {
		return " "
	}

	p := b.At(sq.Row, sq.Col)
	switch {
	case p.IsEmpty() && hl.isTarget(sq):
		return Paint(Green, "*")
	case p.IsEmpty() && hl.Captured != nil && *hl.Captured == sq:
		return Paint(Magenta, "x")
	case p.IsEmpty():
		return "."
	}

	glyph := string(p.Symbol())
	if hl.Selected != nil && *hl.Selected == sq {
		return Paint(Bold+Yellow, glyph)
	}
	return Paint(PlayerColor(p.Owner), glyph)
}

// PlayerColor is the color used for a side's pieces and labels
func PlayerColor(p core.Player) string {
	switch p {
	case core.Red:
		return Red
	case core.Black:
		return Blue
	default:
		return ""
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(p core.Player) string {
	name := p.String()
	return Paint(PlayerColor(p), strings.ToUpper(name[:1])+name[1:])
}
