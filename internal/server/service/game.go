package service

import (
	"errors"
	"fmt"
	"time"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
	"checkers/internal/server/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotPending is returned when a computer step arrives for a game that is
// no longer waiting on the computer
var ErrNotPending = errors.New("game is not waiting for the computer")

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a constructed game. PvAI games count against the
// computer game limit.
func (s *Service) CreateGame(id string, g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, id)
	}

	if g.Mode() == core.ModePvAI {
		if err := s.claimComputerSlot(); err != nil {
			return err
		}
	}

	s.games[id] = g
	awaitComputer(g)

	// A custom layout may already be decided
	if g.State().IsOver() {
		s.recordResult(id, g)
	}

	log.Debug().Str("game", id).Str("mode", g.Mode().String()).Msg("game created")
	return nil
}

// Snapshot returns a copy of the game's current state
func (s *Service) Snapshot(gameID string) (game.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.View{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.Snapshot(), nil
}

// LegalMoves returns the moves of the piece on sq for the side to move
func (s *Service) LegalMoves(gameID string, sq board.Square) ([]rules.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.LegalMoves(sq), nil
}

// ApplyMove plays a move on behalf of actor. Rejections come back as the
// game package's sentinel errors and leave the game untouched.
func (s *Service) ApplyMove(gameID string, actor core.Actor, from, to board.Square) (game.Result, game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Result{}, game.View{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	res, err := g.Apply(actor, from, to)
	if err != nil {
		return game.Result{}, game.View{}, err
	}
	awaitComputer(g)
	s.afterMove(gameID, g)

	return res, g.Snapshot(), nil
}

// PlayComputerStep lets policy play one move of a game waiting on the
// computer. A capture chain needs one call per jump; the game stays
// pending until the chain ends.
func (s *Service) PlayComputerStep(gameID string, policy *ai.Policy) (game.Result, game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Result{}, game.View{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if g.State() != core.StatePending {
		return game.Result{}, game.View{}, ErrNotPending
	}

	res, err := policy.Step(g)
	if err != nil {
		return game.Result{}, game.View{}, err
	}
	if !res.ContinueJump {
		g.SetState(core.StateOngoing)
	}
	s.afterMove(gameID, g)

	return res, g.Snapshot(), nil
}

// awaitComputer marks a game pending when the computer is to move
func awaitComputer(g *game.Game) {
	if g.ComputerTurn() && !g.State().IsOver() {
		g.SetState(core.StatePending)
	}
}

// afterMove wakes waiters and records the outcome of a finished game.
// Caller holds s.mu.
func (s *Service) afterMove(gameID string, g *game.Game) {
	s.waiter.NotifyGame(gameID, g.MoveCount())
	if g.State().IsOver() {
		s.recordResult(gameID, g)
	}
}

// ResetGame restarts a game, switching mode when mode is set
func (s *Service) ResetGame(gameID string, mode core.Mode) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.View{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if mode == 0 {
		mode = g.Mode()
	}
	if mode != g.Mode() {
		if mode == core.ModePvAI {
			if err := s.claimComputerSlot(); err != nil {
				return game.View{}, err
			}
		} else {
			s.releaseComputerSlot()
		}
	}

	g.Reset(mode)
	awaitComputer(g)
	s.waiter.NotifyAll(gameID)

	return g.Snapshot(), nil
}

// UpdateGameState sets a non-terminal lifecycle state
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	g.SetState(state)
	s.waiter.NotifyAll(gameID)
	return nil
}

// DeleteGame removes a game and releases its waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if g.Mode() == core.ModePvAI {
		s.releaseComputerSlot()
	}
	delete(s.games, gameID)
	log.Debug().Str("game", gameID).Int("waiters", s.waiter.Waiting(gameID)).Msg("game deleted")
	s.waiter.RemoveGame(gameID)

	return nil
}

// recordResult queues the outcome of a finished game. Caller holds s.mu.
func (s *Service) recordResult(gameID string, g *game.Game) {
	winner, _ := g.Winner()
	log.Info().
		Str("game", gameID).
		Str("mode", g.Mode().String()).
		Str("winner", winner.String()).
		Int("moves", g.MoveCount()).
		Msg("game finished")

	if s.store == nil {
		return
	}

	b := g.Board()
	redMen, redKings := b.Count(core.Red)
	blackMen, blackKings := b.Count(core.Black)

	s.store.RecordResult(storage.ResultRecord{
		GameID:      gameID,
		Mode:        g.Mode().String(),
		Winner:      winner.String(),
		MoveCount:   g.MoveCount(),
		RedPieces:   redMen + redKings,
		BlackPieces: blackMen + blackKings,
		FinishedAt:  time.Now().UTC(),
	})
}
