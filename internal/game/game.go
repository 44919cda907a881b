package game

import (
	"errors"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"
)

var (
	ErrOutOfBounds = errors.New("square outside the board")
	ErrNoPiece     = errors.New("no piece on square")
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrJumpPending = errors.New("multi-jump must be continued")
	ErrIllegalMove = errors.New("illegal move")
)

// Result describes an applied move and the transition it caused
type Result struct {
	Move         rules.Move  `json:"move"`
	Player       core.Player `json:"player"`
	Promoted     bool        `json:"promoted"`
	ContinueJump bool        `json:"continueJump"` // Same player must jump again from Move.To
	TurnSwitched bool        `json:"turnSwitched"`
	Winner       core.Player `json:"winner"` // Set when the move ended the game
}

// Game is the complete state of one checkers game. It is not safe for
// concurrent use; the server serializes access.
type Game struct {
	board      *board.Board
	turn       core.Player
	mode       core.Mode
	pending    *board.Square
	state      core.State
	moveCount  int
	lastResult *Result
}

// New starts a game from the standard position with Red to move
func New(mode core.Mode) *Game {
	return &Game{
		board: board.New(),
		turn:  core.Red,
		mode:  mode,
		state: core.StateOngoing,
	}
}

// FromLayout starts a game from a custom position
func FromLayout(layout string, mode core.Mode) (*Game, error) {
	b, turn, err := board.ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	g := &Game{
		board: b,
		turn:  turn,
		mode:  mode,
		state: core.StateOngoing,
	}
	g.checkGameEnd()
	return g, nil
}

// Reset discards the board and starts over in the given mode
func (g *Game) Reset(mode core.Mode) {
	*g = *New(mode)
}

func (g *Game) Mode() core.Mode {
	return g.mode
}

func (g *Game) Turn() core.Player {
	return g.turn
}

func (g *Game) State() core.State {
	return g.state
}

// SetState records a lifecycle state owned by the caller (pending, stuck).
// Terminal states are never overwritten.
func (g *Game) SetState(s core.State) {
	if g.state.IsOver() {
		return
	}
	g.state = s
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) LastResult() *Result {
	return g.lastResult
}

// PendingJump returns the square a multi-jump must continue from
func (g *Game) PendingJump() (board.Square, bool) {
	if g.pending == nil {
		return board.Square{}, false
	}
	return *g.pending, true
}

// Board returns a copy of the current position
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// Layout encodes the current position and side to move
func (g *Game) Layout() string {
	return g.board.Layout(g.turn)
}

// ComputerTurn reports whether the side to move is played by the computer
func (g *Game) ComputerTurn() bool {
	return g.mode == core.ModePvAI && g.turn == core.ComputerSide
}

// Winner returns the winning player once the side to move has no legal move
func (g *Game) Winner() (core.Player, bool) {
	switch g.state {
	case core.StateRedWins:
		return core.Red, true
	case core.StateBlackWins:
		return core.Black, true
	}
	if !rules.HasMoves(g.board, g.turn) {
		return g.turn.Opponent(), true
	}
	return core.NoPlayer, false
}

// LegalMoves returns the moves the side to move may make with the piece on sq.
// While a multi-jump is pending only the jumping piece's captures qualify.
func (g *Game) LegalMoves(sq board.Square) []rules.Move {
	if g.state.IsOver() {
		return nil
	}
	piece, ok := g.board.Get(sq)
	if !ok || piece.Owner != g.turn {
		return nil
	}
	if g.pending != nil {
		if sq != *g.pending {
			return nil
		}
		return rules.Captures(g.board, sq)
	}
	return rules.GenerateMoves(g.board, sq)
}

// Apply moves the piece on from to to on behalf of actor. A rejected move
// returns an error and leaves the game untouched.
func (g *Game) Apply(actor core.Actor, from, to board.Square) (Result, error) {
	if !from.Inside() || !to.Inside() {
		return Result{}, ErrOutOfBounds
	}
	if g.state.IsOver() {
		return Result{}, ErrGameOver
	}
	if !g.mayMove(actor) {
		return Result{}, ErrNotYourTurn
	}

	piece, _ := g.board.Get(from)
	if piece.IsEmpty() {
		return Result{}, ErrNoPiece
	}
	if piece.Owner != g.turn {
		return Result{}, ErrNotYourTurn
	}
	if g.pending != nil && from != *g.pending {
		return Result{}, ErrJumpPending
	}

	move, ok := rules.Find(g.board, from, to)
	if !ok {
		return Result{}, ErrIllegalMove
	}
	if g.pending != nil && !move.IsCapture() {
		return Result{}, ErrJumpPending
	}

	// Validation is complete; nothing below can fail
	g.board.Clear(from)
	if move.IsCapture() {
		g.board.Clear(*move.Capture)
	}

	result := Result{Move: move, Player: piece.Owner}
	if !piece.King && to.Row == piece.Owner.BackRow() {
		piece.King = true
		result.Promoted = true
	}
	g.board.Set(to, piece)
	g.moveCount++

	if move.IsCapture() && len(rules.Captures(g.board, to)) > 0 {
		landing := to
		g.pending = &landing
		result.ContinueJump = true
	} else {
		g.pending = nil
		g.switchTurn()
		result.TurnSwitched = true
	}

	if winner, over := g.Winner(); over {
		result.Winner = winner
	}

	g.lastResult = &result
	return result, nil
}

// mayMove reports whether actor controls the side to move
func (g *Game) mayMove(actor core.Actor) bool {
	if actor == core.ActorComputer {
		return g.ComputerTurn()
	}
	return !g.ComputerTurn()
}

// switchTurn hands the move to the opponent and ends the game if they are stuck
func (g *Game) switchTurn() {
	g.turn = g.turn.Opponent()
	g.checkGameEnd()
}

func (g *Game) checkGameEnd() {
	if winner, over := g.Winner(); over {
		g.state = core.WinState(winner)
	}
}
