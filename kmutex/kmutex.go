// Package kmutex provides two mutex flavors over the same lock/unlock
// vocabulary as original_source/C-kern/platform/Linux/sync/mutex.c:
// Default, a thin wrapper around sync.Mutex with no ownership tracking, and
// Checked, which additionally detects self-deadlock, unlock-by-non-owner,
// double-unlock and destroy-while-locked the way a PTHREAD_MUTEX_ERRORCHECK
// mutex does.
package kmutex

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/go-corekernel/internal/klog"
	"github.com/joeycumines/go-corekernel/kerr"
)

var log = klog.Component("kmutex")

// Default is an unchecked mutex: Lock/Unlock behave exactly like
// sync.Mutex, and misuse is undefined behavior (a double-unlock panics the
// way sync.Mutex's does), matching the original's non-errorcheck mutex.
type Default struct {
	mu sync.Mutex
}

func (m *Default) Lock()   { m.mu.Lock() }
func (m *Default) Unlock() { m.mu.Unlock() }

// TryLock attempts to lock m without blocking.
func (m *Default) TryLock() bool { return m.mu.TryLock() }

// Checked is an error-checking mutex: Lock fails with kerr.DeadLk if the
// calling goroutine already holds it, Unlock fails with kerr.Perm if the
// calling goroutine does not hold it, and Destroy fails with kerr.Busy if
// the mutex is still locked.
type Checked struct {
	mu       sync.Mutex
	owner    atomic.Int64 // goroutine-local id of the current holder, 0 = unlocked
	locked   atomic.Bool
	destroyed atomic.Bool
}

// Lock acquires m, returning kerr.DeadLk if the calling context already
// holds it (goroutine identity is supplied by the caller via id, since Go
// has no public goroutine-id API; callers typically use a per-goroutine
// token from context or a worker's own identity).
func (m *Checked) Lock(id int64) error {
	if m.destroyed.Load() {
		return kerr.New("kmutex.Checked.Lock", kerr.InvalidInput)
	}
	if m.locked.Load() && m.owner.Load() == id {
		return kerr.New("kmutex.Checked.Lock", kerr.DeadLk)
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.locked.Store(true)
	return nil
}

// TryLock attempts a non-blocking lock, returning kerr.Again if m is
// already held.
func (m *Checked) TryLock(id int64) error {
	if m.destroyed.Load() {
		return kerr.New("kmutex.Checked.TryLock", kerr.InvalidInput)
	}
	if !m.mu.TryLock() {
		return kerr.New("kmutex.Checked.TryLock", kerr.Again)
	}
	m.owner.Store(id)
	m.locked.Store(true)
	return nil
}

// Unlock releases m, returning kerr.Perm if the calling context (identified
// by id) does not currently hold it.
func (m *Checked) Unlock(id int64) error {
	if !m.locked.Load() || m.owner.Load() != id {
		return kerr.New("kmutex.Checked.Unlock", kerr.Perm)
	}
	m.locked.Store(false)
	m.owner.Store(0)
	m.mu.Unlock()
	return nil
}

// Destroy marks m unusable, returning kerr.Busy if it is still locked. Once
// destroyed, every further Lock/TryLock fails with kerr.InvalidInput.
func (m *Checked) Destroy() error {
	if m.locked.Load() {
		return kerr.New("kmutex.Checked.Destroy", kerr.Busy)
	}
	m.destroyed.Store(true)
	log.Debug().Log("mutex destroyed")
	return nil
}
