package limiter

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/aleister1102/themediff/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrQueueClosed is returned for tasks submitted after Close.
var ErrQueueClosed = common.NewError("fetch queue closed")

// Task performs one remote call.
type Task func(ctx context.Context) error

// Config holds configuration for the fetch queue
type Config struct {
	// MinInterval is the minimum spacing between the start of two
	// consecutive tasks.
	MinInterval time.Duration
	// MaxRetries bounds retries of a throttled task. Backoff delay is
	// MinInterval * 2^attempt.
	MaxRetries int
}

// DefaultConfig returns default fetch queue configuration
func DefaultConfig() Config {
	return Config{
		MinInterval: time.Second,
		MaxRetries:  3,
	}
}

// FetchQueue serializes all remote calls process-wide: tasks execute
// strictly one at a time, paced by a minimum inter-request interval, with
// exponential backoff on throttling responses. The upstream store enforces
// a global per-credential rate limit, so every caller funnels through one
// queue and admission is FIFO.
type FetchQueue struct {
	jobs      chan *job
	pacer     *rate.Limiter
	cfg       Config
	logger    zerolog.Logger
	quit      chan struct{}
	closeOnce sync.Once
}

type job struct {
	ctx  context.Context
	name string
	run  Task
	done chan error
}

// NewFetchQueue creates a fetch queue and starts its single worker.
func NewFetchQueue(cfg Config, logger zerolog.Logger) *FetchQueue {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultConfig().MinInterval
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	q := &FetchQueue{
		jobs:   make(chan *job),
		pacer:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		cfg:    cfg,
		logger: logger.With().Str("component", "FetchQueue").Logger(),
		quit:   make(chan struct{}),
	}

	go q.loop()

	return q
}

// Do submits a task and blocks until it finishes or ctx is cancelled.
// If ctx is cancelled after dispatch, the in-flight task may still complete
// but its result is discarded.
func (q *FetchQueue) Do(ctx context.Context, name string, task Task) error {
	j := &job{
		ctx:  ctx,
		name: name,
		run:  task,
		done: make(chan error, 1),
	}

	select {
	case q.jobs <- j:
	case <-q.quit:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker. Pending and future submissions fail with
// ErrQueueClosed.
func (q *FetchQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.quit)
	})
}

// loop is the single consumer of the queue. All pacing and backoff waits
// happen here, so the "one in-flight call" ceiling holds no matter how
// many producers enqueue concurrently.
func (q *FetchQueue) loop() {
	for {
		select {
		case <-q.quit:
			return
		case j := <-q.jobs:
			select {
			case <-q.quit:
				j.done <- ErrQueueClosed
			default:
				j.done <- q.execute(j)
			}
		}
	}
}

// execute runs one task with throttle retries.
func (q *FetchQueue) execute(j *job) error {
	for attempt := 0; ; attempt++ {
		if err := q.pacer.Wait(j.ctx); err != nil {
			return err
		}

		err := j.run(j.ctx)
		if err == nil {
			return nil
		}

		// Only throttling responses are retryable; anything else
		// propagates immediately.
		if !common.IsRateLimited(err) {
			q.logger.Error().
				Err(err).
				Str("task", j.name).
				Msg("Remote call failed")
			return err
		}

		if attempt >= q.cfg.MaxRetries {
			q.logger.Error().
				Err(err).
				Str("task", j.name).
				Int("attempts", attempt+1).
				Msg("Throttle retry budget exhausted")
			return common.WrapError(err, "throttle retry budget exhausted")
		}

		delay := q.backoffDelay(attempt)
		q.logger.Warn().
			Str("task", j.name).
			Int("attempt", attempt+1).
			Int("max_retries", q.cfg.MaxRetries).
			Dur("delay", delay).
			Msg("Rate limited, waiting before retry")

		select {
		case <-j.ctx.Done():
			return j.ctx.Err()
		case <-time.After(delay):
		}
	}
}

// backoffDelay calculates the delay before the next retry attempt using
// exponential backoff: MinInterval * 2^attempt.
func (q *FetchQueue) backoffDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return q.cfg.MinInterval
	}
	return time.Duration(float64(q.cfg.MinInterval) * math.Pow(2, float64(attempt)))
}
