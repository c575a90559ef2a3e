package waitlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-corekernel/kerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryWakeupOnEmptyListIsAgain(t *testing.T) {
	var l List[int]
	err := l.TryWakeup(0)
	require.ErrorIs(t, err, kerr.Again)
}

func TestFIFOWakeOrderForTwentyWaiters(t *testing.T) {
	var l List[int]
	const n = 20
	order := make(chan int, n)
	var starts sync.WaitGroup
	starts.Add(n)
	for i := 0; i < n; i++ {
		_, wait := l.Wait()
		starts.Done()
		go func() {
			got, err := wait(context.Background())
			require.NoError(t, err)
			order <- got
		}()
	}
	starts.Wait()

	// wake them one at a time with values 1..n, and expect the i'th waiter
	// enqueued to receive exactly value i (strict FIFO delivery of cmd).
	for i := 1; i <= n; i++ {
		for l.Len() == 0 {
			time.Sleep(time.Millisecond)
		}
		require.NoError(t, l.TryWakeup(i))
		got := <-order
		assert.Equal(t, i, got)
	}
}

func TestCancelRemovesWaiterBeforeWake(t *testing.T) {
	var l List[int]
	cancel, _ := l.Wait()
	assert.Equal(t, 1, l.Len())
	cancel()
	assert.Equal(t, 0, l.Len())
}

func TestFreeUnblocksWaitersWithNotExist(t *testing.T) {
	var l List[int]
	_, wait := l.Wait()
	done := make(chan error, 1)
	go func() {
		_, err := wait(context.Background())
		done <- err
	}()
	l.Free()
	err := <-done
	require.ErrorIs(t, err, kerr.NotExist)
}

func TestWaitUnblocksOnContextCancel(t *testing.T) {
	var l List[int]
	_, wait := l.Wait()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := wait(ctx)
		done <- err
	}()
	cancel()
	err := <-done
	require.ErrorIs(t, err, kerr.Again)
}
