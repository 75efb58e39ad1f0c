package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunAll(t *testing.T) {
	pool, err := worker.NewPool("test", 4, nil)
	require.NoError(t, err)
	defer pool.Release(time.Second)

	var counter atomic.Int64
	tasks := make([]worker.Task, 0, 50)
	for range 50 {
		tasks = append(tasks, func(context.Context) { counter.Add(1) })
	}

	require.NoError(t, pool.RunAll(t.Context(), tasks))
	assert.Equal(t, int64(50), counter.Load())
	assert.Equal(t, 4, pool.Cap())
}

func TestPool_SubmitCancelledContext(t *testing.T) {
	pool, err := worker.NewPool("test", 1, nil)
	require.NoError(t, err)
	defer pool.Release(time.Second)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err = pool.Submit(ctx, func(context.Context) { t.Fail() })
	require.ErrorIs(t, err, context.Canceled)
}

func TestPool_PanicIsRecovered(t *testing.T) {
	pool, err := worker.NewPool("test", 1, nil)
	require.NoError(t, err)
	defer pool.Release(time.Second)

	var after atomic.Bool
	require.NoError(t, pool.RunAll(t.Context(), []worker.Task{
		func(context.Context) { panic("boom") },
	}))
	require.NoError(t, pool.RunAll(t.Context(), []worker.Task{
		func(context.Context) { after.Store(true) },
	}))
	assert.True(t, after.Load())
}

func TestPool_SubmitAfterRelease(t *testing.T) {
	pool, err := worker.NewPool("test", 1, nil)
	require.NoError(t, err)
	pool.Release(time.Second)

	err = pool.Submit(t.Context(), func(context.Context) {})
	require.ErrorIs(t, err, worker.ErrPoolClosed)
}
