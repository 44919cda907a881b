// Package ai implements the computer opponent: capture whenever possible,
// otherwise pick uniformly at random. There is no lookahead.
package ai

import (
	"errors"
	"sync"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"

	"golang.org/x/exp/rand"
)

var ErrNoMoves = errors.New("no moves available")

// Policy selects computer moves. Safe for concurrent use.
type Policy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a policy; equal seeds give equal choices
func New(seed uint64) *Policy {
	return &Policy{rng: rand.New(rand.NewSource(seed))}
}

// ChooseMove picks a move for player. Captures are mandatory for the
// computer: if any exist only captures are considered.
func (p *Policy) ChooseMove(b *board.Board, player core.Player) (rules.Move, bool) {
	moves := rules.AllMoves(b, player)
	if len(moves) == 0 {
		return rules.Move{}, false
	}
	if captures := rules.FilterCaptures(moves); len(captures) > 0 {
		moves = captures
	}
	return p.pick(moves), true
}

// ChooseContinuation picks among the captures available from sq
func (p *Policy) ChooseContinuation(b *board.Board, sq board.Square) (rules.Move, bool) {
	captures := rules.Captures(b, sq)
	if len(captures) == 0 {
		return rules.Move{}, false
	}
	return p.pick(captures), true
}

// Next picks the move to play in a position, continuing a pending jump if set
func (p *Policy) Next(b *board.Board, player core.Player, pending *board.Square) (rules.Move, bool) {
	if pending != nil {
		return p.ChooseContinuation(b, *pending)
	}
	return p.ChooseMove(b, player)
}

// Step plays a single computer move in g
func (p *Policy) Step(g *game.Game) (game.Result, error) {
	var pending *board.Square
	if sq, ok := g.PendingJump(); ok {
		pending = &sq
	}

	move, ok := p.Next(g.Board(), g.Turn(), pending)
	if !ok {
		return game.Result{}, ErrNoMoves
	}
	return g.Apply(core.ActorComputer, move.From, move.To)
}

// PlayTurn plays the computer's whole turn, following a capture chain until
// no further jump is available from the landing square. onStep, if set, is
// called after each move is applied.
func (p *Policy) PlayTurn(g *game.Game, onStep func(game.Result)) ([]game.Result, error) {
	var played []game.Result
	for {
		res, err := p.Step(g)
		if err != nil {
			return played, err
		}
		played = append(played, res)
		if onStep != nil {
			onStep(res)
		}
		if !res.ContinueJump {
			return played, nil
		}
	}
}

func (p *Policy) pick(moves []rules.Move) rules.Move {
	p.mu.Lock()
	defer p.mu.Unlock()
	return moves[p.rng.Intn(len(moves))]
}
