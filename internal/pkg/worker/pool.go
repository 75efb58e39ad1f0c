// Package worker provides a bounded goroutine pool for background fan-out.
//
// Background work does not start naked goroutines; it goes through Pool so that
// concurrency stays bounded and panics are recovered and logged.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware unit of work.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool   *ants.Pool
	name   string
	logger *zap.Logger
}

// NewPool creates a blocking pool of the given size.
func NewPool(name string, size int, logger *zap.Logger) (*Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("pool", name))

	p, err := ants.NewPool(size,
		ants.WithPanicHandler(func(r any) {
			logger.Error("worker panic recovered", zap.Any("panic", r), zap.Stack("stack"))
		}),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Pool{pool: p, name: name, logger: logger}, nil
}

// Submit queues task. A cancelled ctx returns ctx.Err() without queueing, and a
// task whose ctx is cancelled while queued is skipped.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := p.pool.Submit(func() {
		select {
		case <-ctx.Done():
			p.logger.Debug("task skipped: context cancelled", zap.Error(ctx.Err()))
			return
		default:
		}
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// RunAll submits every task and waits for all of them to finish.
// It returns the first submission error; tasks already queued still complete.
func (p *Pool) RunAll(ctx context.Context, tasks []Task) error {
	var wg sync.WaitGroup
	var firstErr error

	for _, task := range tasks {
		wg.Add(1)
		err := p.Submit(ctx, func(ctx context.Context) {
			defer wg.Done()
			task(ctx)
		})
		if err != nil {
			wg.Done()
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	wg.Wait()
	return firstErr
}

// Running returns the number of workers currently executing tasks.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Cap returns the pool capacity.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Release stops accepting tasks and waits up to timeout for running ones.
func (p *Pool) Release(timeout time.Duration) {
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		p.logger.Warn("worker pool shutdown timeout", zap.Error(err))
	}
}
