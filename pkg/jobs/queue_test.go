package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSingleWorkerPreservesOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Payload.(int))
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 16})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(Job{Type: "n", Payload: i}))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 10
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, v := range seen {
		assert.Equal(t, i, v)
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{Type: "n"})
	assert.Error(t, err)
}

func TestQueueDropsFailedJobWithoutRetries(t *testing.T) {
	var count int32
	var mu sync.Mutex

	q := NewQueue("test", func(context.Context, Job) error {
		mu.Lock()
		count++
		mu.Unlock()
		return assert.AnError
	}, QueueConfig{Workers: 1, BufferSize: 4})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "n", Payload: 1}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)

	// MaxRetries defaults to zero: the failure must not requeue.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, int32(1), count)
	mu.Unlock()
}
