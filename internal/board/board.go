package board

import (
	"strconv"

	"checkers/internal/core"
)

// Size is the number of rows and columns
const Size = 8

// Piece occupies a playable cell. The zero Piece is an empty cell.
type Piece struct {
	Owner core.Player `json:"owner"`
	King  bool        `json:"king"`
}

// IsEmpty reports whether the cell holds no piece
func (p Piece) IsEmpty() bool {
	return p.Owner == core.NoPlayer
}

// Square addresses a cell by row and column
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Inside reports whether the square lies on the board
func (s Square) Inside() bool {
	return Inside(s.Row, s.Col)
}

// Playable reports whether the square is a dark cell
func (s Square) Playable() bool {
	return (s.Row+s.Col)%2 == 1
}

// String renders the square as "row,col"
func (s Square) String() string {
	return strconv.Itoa(s.Row) + "," + strconv.Itoa(s.Col)
}

// Offset returns the square dr rows and dc columns away
func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// Inside reports whether (row, col) is within [0,7]x[0,7]
func Inside(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

type Board struct {
	cells [Size][Size]Piece
}

// Empty returns a board with no pieces
func Empty() *Board {
	return &Board{}
}

// New returns a board in the standard starting position
func New() *Board {
	b := &Board{}
	b.initialize()
	return b
}

// initialize places Black on rows 0-2 and Red on rows 5-7, dark cells only
func (b *Board) initialize() {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			b.cells[row][col] = Piece{}
			if (row+col)%2 == 0 {
				continue
			}
			switch {
			case row < 3:
				b.cells[row][col] = Piece{Owner: core.Black}
			case row > 4:
				b.cells[row][col] = Piece{Owner: core.Red}
			}
		}
	}
}

// Get returns the piece at sq; ok is false outside the board
func (b *Board) Get(sq Square) (Piece, bool) {
	if !sq.Inside() {
		return Piece{}, false
	}
	return b.cells[sq.Row][sq.Col], true
}

// At is Get without the bounds flag
func (b *Board) At(row, col int) Piece {
	p, _ := b.Get(Sq(row, col))
	return p
}

// Set writes a cell unconditionally. Writes outside the board are dropped.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.Inside() {
		return
	}
	b.cells[sq.Row][sq.Col] = p
}

// Clear empties a cell
func (b *Board) Clear(sq Square) {
	b.Set(sq, Piece{})
}

// Clone returns an independent copy
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Squares lists the squares holding the player's pieces in row-major order
func (b *Board) Squares(player core.Player) []Square {
	var out []Square
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.cells[row][col].Owner == player {
				out = append(out, Sq(row, col))
			}
		}
	}
	return out
}

// Count returns the number of men and kings owned by player
func (b *Board) Count(player core.Player) (men, kings int) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.cells[row][col]
			if p.Owner != player {
				continue
			}
			if p.King {
				kings++
			} else {
				men++
			}
		}
	}
	return men, kings
}
