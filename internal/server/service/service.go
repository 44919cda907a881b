package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"checkers/internal/game"
	"checkers/internal/server/storage"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameExists         = errors.New("game already exists")
	ErrComputerGameLimit  = errors.New("computer game limit reached")
	ErrStorageUnavailable = errors.New("storage disabled")
)

// Options tunes service limits
type Options struct {
	MaxComputerGames int
	WaitTimeout      time.Duration
}

// Service owns the running games and coordinates waiters and storage
type Service struct {
	games            map[string]*game.Game
	mu               sync.RWMutex
	store            *storage.Store
	waiter           *WaitRegistry
	computerGames    atomic.Int32 // Games currently in PvAI mode
	maxComputerGames int32
}

// New creates a service instance; store may be nil to run without results
func New(store *storage.Store, opts Options) *Service {
	return &Service{
		games:            make(map[string]*game.Game),
		store:            store,
		waiter:           NewWaitRegistry(opts.WaitTimeout),
		maxComputerGames: int32(opts.MaxComputerGames),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait parks a client until the game's move count differs from
// moveCount; the release func must be called when the client is done
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) (<-chan struct{}, func()) {
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// GetComputerGameCount returns current computer game count
func (s *Service) GetComputerGameCount() int32 {
	return s.computerGames.Load()
}

// claimComputerSlot reserves a PvAI slot, failing when the limit is reached
func (s *Service) claimComputerSlot() error {
	for {
		n := s.computerGames.Load()
		if n >= s.maxComputerGames {
			return ErrComputerGameLimit
		}
		if s.computerGames.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

func (s *Service) releaseComputerSlot() {
	s.computerGames.Add(-1)
}

// Results summarizes the recorded outcomes
func (s *Service) Results() (storage.Summary, error) {
	if s.store == nil {
		return storage.Summary{}, ErrStorageUnavailable
	}
	sum, err := s.store.Summarize()
	if err != nil {
		return storage.Summary{}, fmt.Errorf("summarize results: %w", err)
	}
	return sum, nil
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)
	s.computerGames.Store(0)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
