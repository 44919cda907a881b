package board

import (
	"fmt"
	"strings"

	"checkers/internal/core"
)

const (
	StartingLayout = "1b1b1b1b/b1b1b1b1/1b1b1b1b/8/8/r1r1r1r1/1r1r1r1r/r1r1r1r1 r"
)

// ParseLayout decodes a layout string into a board and the side to move.
// Rows run from 0 (Black's home) to 7 (Red's home), separated by '/'.
func ParseLayout(layout string) (*Board, core.Player, error) {
	parts := strings.Fields(layout)
	if len(parts) != 2 {
		return nil, core.NoPlayer, fmt.Errorf("invalid layout: expected 2 parts, got %d", len(parts))
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != Size {
		return nil, core.NoPlayer, fmt.Errorf("invalid layout: expected %d rows", Size)
	}

	b := Empty()
	for r := 0; r < Size; r++ {
		col := 0
		for _, ch := range rows[r] {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			if col >= Size {
				return nil, core.NoPlayer, fmt.Errorf("invalid layout: too many cells in row %d", r)
			}
			p, ok := pieceFromRune(ch)
			if !ok {
				return nil, core.NoPlayer, fmt.Errorf("invalid layout: unknown piece %q in row %d", ch, r)
			}
			sq := Sq(r, col)
			if !sq.Playable() {
				return nil, core.NoPlayer, fmt.Errorf("invalid layout: piece on light cell %d,%d", r, col)
			}
			b.Set(sq, p)
			col++
		}
		if col != Size {
			return nil, core.NoPlayer, fmt.Errorf("invalid layout: row %d has %d cells", r, col)
		}
	}

	turn, ok := core.ParsePlayer(parts[1])
	if !ok {
		return nil, core.NoPlayer, fmt.Errorf("invalid layout: turn must be 'r' or 'b'")
	}

	return b, turn, nil
}

// Layout encodes the board with the given side to move
func (b *Board) Layout(turn core.Player) string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Size; c++ {
			p := b.cells[r][c]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceRune(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if turn == core.Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('r')
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for c := 0; c < Size; c++ {
			p := b.cells[r][c]
			switch {
			case !Sq(r, c).Playable():
				sb.WriteString("  ")
			case p.IsEmpty():
				sb.WriteString(". ")
			default:
				sb.WriteString(fmt.Sprintf("%c ", pieceRune(p)))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7")

	return sb.String()
}

// Symbol is the layout letter of a non-empty piece
func (p Piece) Symbol() byte {
	return pieceRune(p)
}

func pieceRune(p Piece) byte {
	var ch byte = 'r'
	if p.Owner == core.Black {
		ch = 'b'
	}
	if p.King {
		ch -= 'a' - 'A'
	}
	return ch
}

func pieceFromRune(ch rune) (Piece, bool) {
	switch ch {
	case 'r':
		return Piece{Owner: core.Red}, true
	case 'R':
		return Piece{Owner: core.Red, King: true}, true
	case 'b':
		return Piece{Owner: core.Black}, true
	case 'B':
		return Piece{Owner: core.Black, King: true}, true
	default:
		return Piece{}, false
	}
}
