package processor

import (
	"context"
	"errors"
	"sync"
	"time"

	"checkers/internal/ai"

	"github.com/rs/zerolog/log"
)

const taskQueueSize = 100

var (
	ErrQueueFull     = errors.New("queue is full")
	ErrQueueShutdown = errors.New("queue is shutting down")
)

// AITask is one computer move to play. Run is called on a worker with that
// worker's policy; Dropped is called if the task never reaches a worker.
type AITask struct {
	GameID  string
	Run     func(policy *ai.Policy)
	Dropped func(err error)
}

// AIQueue runs computer moves on a fixed pool of workers
type AIQueue struct {
	tasks   chan AITask
	workers int
	seed    uint64
	wg      sync.WaitGroup
	timers  sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewAIQueue creates a queue with workerCount workers. Worker i seeds its
// policy with seed+i.
func NewAIQueue(workerCount int, seed uint64) *AIQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &AIQueue{
		tasks:   make(chan AITask, taskQueueSize),
		workers: workerCount,
		seed:    seed,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

func (q *AIQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

func (q *AIQueue) worker(id int) {
	defer q.wg.Done()

	// Each worker owns its policy
	policy := ai.New(q.seed + uint64(id))

	for {
		select {
		case task := <-q.tasks:
			q.run(id, policy, task)
		case <-q.ctx.Done():
			return
		}
	}
}

func (q *AIQueue) run(id int, policy *ai.Policy, task AITask) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("worker", id).Str("game", task.GameID).Interface("panic", r).Msg("computer move panicked")
			if task.Dropped != nil {
				task.Dropped(errors.New("computer move failed"))
			}
		}
	}()
	task.Run(policy)
}

// Submit adds a task to the queue
func (q *AIQueue) Submit(task AITask) error {
	select {
	case <-q.ctx.Done():
		return ErrQueueShutdown
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitAfter queues task once delay has passed. Errors raised after the
// delay go to task.Dropped.
func (q *AIQueue) SubmitAfter(delay time.Duration, task AITask) error {
	if delay <= 0 {
		return q.Submit(task)
	}
	if q.ctx.Err() != nil {
		return ErrQueueShutdown
	}

	q.timers.Add(1)
	go func() {
		defer q.timers.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		var err error
		select {
		case <-timer.C:
			err = q.Submit(task)
		case <-q.ctx.Done():
			err = ErrQueueShutdown
		}
		if err != nil {
			log.Warn().Err(err).Str("game", task.GameID).Msg("computer move dropped")
			if task.Dropped != nil {
				task.Dropped(err)
			}
		}
	}()
	return nil
}

// Shutdown stops the workers; queued tasks are discarded
func (q *AIQueue) Shutdown(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.timers.Wait()
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("shutdown timeout exceeded")
	}
}
