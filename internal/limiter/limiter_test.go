package limiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T, interval time.Duration, maxRetries int) *FetchQueue {
	t.Helper()
	q := NewFetchQueue(Config{MinInterval: interval, MaxRetries: maxRetries}, zerolog.Nop())
	t.Cleanup(q.Close)
	return q
}

func TestFetchQueue_SpacesConsecutiveTasks(t *testing.T) {
	const interval = 50 * time.Millisecond
	q := newTestQueue(t, interval, 0)

	var mu sync.Mutex
	var starts []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Do(context.Background(), "spacing", func(ctx context.Context) error {
				mu.Lock()
				starts = append(starts, time.Now())
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, starts, 4)
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond,
			"gap between task %d and %d was %v", i-1, i, gap)
	}
}

func TestFetchQueue_FIFOWithinOneProducer(t *testing.T) {
	q := newTestQueue(t, time.Millisecond, 0)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		err := q.Do(context.Background(), "fifo", func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFetchQueue_RetriesThrottledTask(t *testing.T) {
	const interval = 20 * time.Millisecond
	q := newTestQueue(t, interval, 3)

	attempts := 0
	start := time.Now()
	err := q.Do(context.Background(), "retry", func(ctx context.Context) error {
		attempts++
		if attempts <= 2 {
			return common.NewHTTPError(429, "throttled")
		}
		return nil
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	// Two backoff sleeps: interval*2^0 + interval*2^1.
	assert.GreaterOrEqual(t, elapsed, 3*interval-5*time.Millisecond)
}

func TestFetchQueue_ThrottleBudgetExhausted(t *testing.T) {
	q := newTestQueue(t, time.Millisecond, 2)

	attempts := 0
	err := q.Do(context.Background(), "exhausted", func(ctx context.Context) error {
		attempts++
		return common.NewHTTPError(429, "still throttled")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts) // initial attempt + 2 retries
	assert.True(t, common.IsRateLimited(err))
	assert.Contains(t, err.Error(), "retry budget exhausted")
}

func TestFetchQueue_NonThrottleFailurePropagatesImmediately(t *testing.T) {
	q := newTestQueue(t, time.Millisecond, 3)

	attempts := 0
	err := q.Do(context.Background(), "fatal", func(ctx context.Context) error {
		attempts++
		return common.NewHTTPError(500, "boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, common.IsRateLimited(err))
}

func TestFetchQueue_ContextCancellation(t *testing.T) {
	q := newTestQueue(t, 10*time.Millisecond, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Do(ctx, "cancelled", func(ctx context.Context) error {
		t.Fatal("task should not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchQueue_ClosedQueueRejectsTasks(t *testing.T) {
	q := NewFetchQueue(Config{MinInterval: time.Millisecond}, zerolog.Nop())
	q.Close()

	err := q.Do(context.Background(), "late", func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrQueueClosed)
}
