package kthread

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupCommitRunsAllThreads(t *testing.T) {
	g := NewGroup(context.Background())
	var n int64
	for i := 0; i < 5; i++ {
		g.Add(func(ctx context.Context) error {
			atomic.AddInt64(&n, 1)
			return nil
		})
	}
	require.NoError(t, g.Commit())
	for _, th := range g.Threads() {
		require.NoError(t, th.Join())
	}
	require.Equal(t, int64(5), atomic.LoadInt64(&n))
}

func TestCommitAbortsWholeGroupOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGroup(ctx)
	g.Add(func(ctx context.Context) error { return nil })
	err := g.Commit()
	require.Error(t, err)
}

func TestCommitAbortNeverRunsAnyStagedFn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGroup(ctx)
	var ran int64
	const n = 8
	for i := 0; i < n; i++ {
		g.Add(func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}
	err := g.Commit()
	require.Error(t, err)
	require.Equal(t, int64(0), atomic.LoadInt64(&ran))
}

func TestSuspendResumeRoundTrip(t *testing.T) {
	g := NewGroup(context.Background())
	var th *Thread
	th = g.Add(func(ctx context.Context) error {
		for i := 0; i < 200; i++ {
			if err := th.CheckSuspend(ctx); err != nil {
				return err
			}
			time.Sleep(2 * time.Millisecond)
		}
		return nil
	})
	require.NoError(t, g.Commit())

	time.Sleep(10 * time.Millisecond)
	th.Suspend()
	require.Eventually(t, func() bool {
		return th.State() == StateSuspended
	}, time.Second, 5*time.Millisecond)
	th.Resume()
	require.NoError(t, th.Join())
}
