package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueStopDrainsBufferedJobs(t *testing.T) {
	var mu sync.Mutex
	var processed []string
	handler := func(_ context.Context, job Job) error {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		processed = append(processed, job.ID)
		mu.Unlock()
		return nil
	}

	q := NewQueue("test", handler, QueueConfig{Workers: 1, BufferSize: 16})
	q.Start(context.Background())

	for _, id := range []string{"j-1", "j-2", "j-3", "j-4"} {
		require.NoError(t, q.Enqueue(Job{ID: id, Type: "test"}))
	}
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"j-1", "j-2", "j-3", "j-4"}, processed)
}

func TestQueueEnqueueAfterStop(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{Workers: 1})

	require.Error(t, q.Enqueue(Job{ID: "j-1"}))

	q.Start(context.Background())
	q.Stop()
	require.Error(t, q.Enqueue(Job{ID: "j-2"}))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	handler := func(_ context.Context, _ Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}

	q := NewQueue("test", handler, QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "j-1", Type: "test"}))
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}
