package processor

import (
	"sync/atomic"
	"testing"
	"time"

	"checkers/internal/ai"

	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewAIQueue(2, 1)
	defer q.Shutdown(time.Second)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Submit(AITask{GameID: "g", Run: func(p *ai.Policy) {
			if p != nil {
				ran.Add(1)
			}
		}}))
	}
	require.Eventually(t, func() bool { return ran.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func TestSubmitAfterWaits(t *testing.T) {
	q := NewAIQueue(1, 1)
	defer q.Shutdown(time.Second)

	start := time.Now()
	done := make(chan time.Duration, 1)
	require.NoError(t, q.SubmitAfter(30*time.Millisecond, AITask{Run: func(*ai.Policy) {
		done <- time.Since(start)
	}}))

	select {
	case elapsed := <-done:
		require.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("delayed task never ran")
	}
}

func TestShutdownDropsDelayedTasks(t *testing.T) {
	q := NewAIQueue(1, 1)

	dropped := make(chan error, 1)
	require.NoError(t, q.SubmitAfter(time.Minute, AITask{
		Run:     func(*ai.Policy) { t.Error("task ran after shutdown") },
		Dropped: func(err error) { dropped <- err },
	}))

	require.NoError(t, q.Shutdown(time.Second))
	require.ErrorIs(t, <-dropped, ErrQueueShutdown)
	require.ErrorIs(t, q.Submit(AITask{}), ErrQueueShutdown)
	require.ErrorIs(t, q.SubmitAfter(time.Second, AITask{}), ErrQueueShutdown)
}

func TestPanickingTaskIsDropped(t *testing.T) {
	q := NewAIQueue(1, 1)
	defer q.Shutdown(time.Second)

	dropped := make(chan error, 1)
	require.NoError(t, q.Submit(AITask{
		Run:     func(*ai.Policy) { panic("boom") },
		Dropped: func(err error) { dropped <- err },
	}))

	select {
	case err := <-dropped:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("panic not reported")
	}

	// The worker survives
	ran := make(chan struct{})
	require.NoError(t, q.Submit(AITask{Run: func(*ai.Policy) { close(ran) }}))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker died")
	}
}
