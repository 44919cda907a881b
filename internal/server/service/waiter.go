package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the longest a long-poll request is held open
	WaitTimeout = 25 * time.Second
)

// WaitRegistry parks long-polling clients until a game's move count moves on
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*waitRequest // gameID → parked clients
	timeout  time.Duration
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

type waitRequest struct {
	moveCount int
	notify    chan struct{}
	done      chan struct{}
	doneOnce  sync.Once
	timer     *time.Timer
}

// NewWaitRegistry creates a registry whose waits expire after timeout
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that fires when the game's move count
// differs from moveCount, the wait times out, the game is removed, or the
// registry shuts down. The returned release func must be called once the
// caller stops waiting; ctx cancellation releases as well.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) (<-chan struct{}, func()) {
	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	release := func() {
		req.doneOnce.Do(func() { close(req.done) })
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		req.notify <- struct{}{}
		return req.notify, release
	}

	req.timer = time.AfterFunc(w.timeout, func() { signal(req) })
	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-req.done:
		case <-w.shutdown:
			signal(req)
		}
		w.removeWaiter(gameID, req)
	}()

	return req.notify, release
}

// NotifyGame wakes clients whose known move count is stale
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		if req.moveCount != currentMoveCount {
			signal(req)
		}
	}
}

// NotifyAll wakes every client parked on a game regardless of move count,
// used when the game changes without a move (reset, state change)
func (w *WaitRegistry) NotifyAll(gameID string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		signal(req)
	}
}

// RemoveGame wakes and forgets every client waiting on a deleted game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.timer.Stop()
		signal(req)
	}
}

// Waiting returns the number of parked clients for a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every parked client and waits for cleanup goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.shutdown)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

// removeWaiter drops a request once its client has gone away
func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	req.timer.Stop()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}

// signal performs a non-blocking send; a full buffer already holds a wakeup
func signal(req *waitRequest) {
	select {
	case req.notify <- struct{}{}:
	default:
	}
}
