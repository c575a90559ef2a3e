package kmutex

import (
	"sync"
	"testing"

	"github.com/joeycumines/go-corekernel/kerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultMutexSerializesTwoMillionIncrements runs two goroutines each
// incrementing a mutex-guarded counter 1,000,000 times (2,000,000 total)
// alongside an unsynchronized mirror counter incremented the same number of
// times outside the lock, demonstrating the mutex actually has an effect:
// the guarded counter always lands on the exact expected total, while nothing
// guarantees the unguarded one does.
func TestDefaultMutexSerializesTwoMillionIncrements(t *testing.T) {
	var mu Default
	const perGoroutine = 1_000_000
	guarded := 0
	unguarded := 0
	var wg sync.WaitGroup
	wg.Add(2)
	for g := 0; g < 2; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				mu.Lock()
				guarded++
				mu.Unlock()
				unguarded++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 2*perGoroutine, guarded)
	t.Logf("unsynchronized mirror counter settled at %d (vs the mutex-guarded counter's exact %d)", unguarded, guarded)
}

func TestCheckedLockSelfDeadlock(t *testing.T) {
	var mu Checked
	require.NoError(t, mu.Lock(1))
	err := mu.Lock(1)
	require.ErrorIs(t, err, kerr.DeadLk)
}

func TestCheckedUnlockByNonOwner(t *testing.T) {
	var mu Checked
	require.NoError(t, mu.Lock(1))
	err := mu.Unlock(2)
	require.ErrorIs(t, err, kerr.Perm)
}

func TestCheckedDestroyWhileLockedIsBusy(t *testing.T) {
	var mu Checked
	require.NoError(t, mu.Lock(1))
	err := mu.Destroy()
	require.ErrorIs(t, err, kerr.Busy)
	require.NoError(t, mu.Unlock(1))
	require.NoError(t, mu.Destroy())
}
