// Package rules generates legal checkers moves for a single piece.
// Capture priority across the board is left to callers.
package rules

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// Direction is a diagonal step
type Direction struct {
	DR, DC int
}

// allDirections is the fixed iteration order used for every piece
var allDirections = []Direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// Move is a step (Capture nil) or a jump over the piece at Capture
type Move struct {
	From    board.Square  `json:"from"`
	To      board.Square  `json:"to"`
	Capture *board.Square `json:"capture,omitempty"`
}

// IsCapture reports whether the move jumps an opposing piece
func (m Move) IsCapture() bool {
	return m.Capture != nil
}

// Directions returns the diagonals a piece may move along.
// Kings use all four; men only advance toward the opponent's back row.
func Directions(p board.Piece) []Direction {
	if p.IsEmpty() {
		return nil
	}
	if p.King {
		return allDirections
	}
	forward := p.Owner.Forward()
	dirs := make([]Direction, 0, 2)
	for _, d := range allDirections {
		if d.DR == forward {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// GenerateMoves returns every step and jump available to the piece on from.
// An empty or off-board square yields no moves.
func GenerateMoves(b *board.Board, from board.Square) []Move {
	piece, ok := b.Get(from)
	if !ok || piece.IsEmpty() {
		return nil
	}

	var moves []Move
	for _, d := range Directions(piece) {
		adj := from.Offset(d.DR, d.DC)
		target, inside := b.Get(adj)
		if !inside {
			continue
		}

		if target.IsEmpty() {
			moves = append(moves, Move{From: from, To: adj})
			continue
		}

		if target.Owner == piece.Owner {
			continue
		}

		landing := adj.Offset(d.DR, d.DC)
		if cell, inside := b.Get(landing); inside && cell.IsEmpty() {
			captured := adj
			moves = append(moves, Move{From: from, To: landing, Capture: &captured})
		}
	}
	return moves
}

// Captures returns only the jumps available from sq
func Captures(b *board.Board, sq board.Square) []Move {
	return FilterCaptures(GenerateMoves(b, sq))
}

// FilterCaptures keeps the jumps of moves
func FilterCaptures(moves []Move) []Move {
	var out []Move
	for _, m := range moves {
		if m.IsCapture() {
			out = append(out, m)
		}
	}
	return out
}

// AllMoves collects the moves of every piece owned by player, row-major
func AllMoves(b *board.Board, player core.Player) []Move {
	var moves []Move
	for _, sq := range b.Squares(player) {
		moves = append(moves, GenerateMoves(b, sq)...)
	}
	return moves
}

// HasMoves reports whether player can move anywhere on the board
func HasMoves(b *board.Board, player core.Player) bool {
	for _, sq := range b.Squares(player) {
		if len(GenerateMoves(b, sq)) > 0 {
			return true
		}
	}
	return false
}

// Find returns the move from the piece on from that lands on to
func Find(b *board.Board, from, to board.Square) (Move, bool) {
	for _, m := range GenerateMoves(b, from) {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}
