package threadpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTryRunTaskExecutesOnWorker(t *testing.T) {
	p, err := New(context.Background(), 2)
	require.NoError(t, err)
	defer p.Free()

	var n int64
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.TryRunTask(func(ctx context.Context) {
		atomic.AddInt64(&n, 1)
		wg.Done()
	}))
	wg.Wait()
	require.Equal(t, int64(1), atomic.LoadInt64(&n))
}

func TestTryRunTaskFailsWhenAllWorkersBusy(t *testing.T) {
	p, err := New(context.Background(), 1)
	require.NoError(t, err)
	defer p.Free()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.TryRunTask(func(ctx context.Context) {
		close(started)
		<-block
	}))
	<-started

	deadline := time.After(200 * time.Millisecond)
	var lastErr error
	for {
		select {
		case <-deadline:
			close(block)
			require.Error(t, lastErr)
			return
		default:
		}
		lastErr = p.TryRunTask(func(ctx context.Context) {})
		if lastErr != nil {
			close(block)
			return
		}
	}
}
