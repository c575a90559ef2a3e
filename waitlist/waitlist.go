// Package waitlist implements a FIFO list of blocked waiters, in the style
// of original_source/C-kern/platform/Linux/sync/waitlist.c: waiters enqueue
// themselves, block until woken, and a writer wakes the head of the list
// one at a time (or all at once), handing that specific waiter a value
// (trywakeup_waitlist's `cmd` argument, written into the woken thread's own
// task slot under the list's mutex). Unlike the original's intrusive
// singly-linked ring through a wlist_next field, Go models the queue with
// a slice guarded by a mutex and wakes waiters with per-waiter channels,
// the idiomatic analogue of golang.org/x/exp/constraints-style generic
// containers used by catrate/ring.go.
package waitlist

import (
	"context"
	"sync"

	"github.com/joeycumines/go-corekernel/kerr"
)

// entry is one waiter's handshake channel, carrying the value TryWakeup/
// WakeAll delivers to this specific waiter. It is buffered by one so a
// writer's wake never blocks even if the waiter has not yet reached its
// receive.
type entry[T any] struct {
	ch chan T
}

// List is a FIFO wait list whose waiters each receive a caller-supplied
// value of type T when woken. The zero value is ready to use.
type List[T any] struct {
	mu      sync.Mutex
	waiters []*entry[T]
	closed  bool
}

// Wait blocks the calling goroutine until woken by TryWakeup/WakeAll (which
// deliver the woken value), until the list is freed (kerr.NotExist), or
// until ctx is done (kerr.Again) when the returned wait func is called.
func (l *List[T]) Wait() (cancel func(), wait func(ctx context.Context) (T, error)) {
	e := &entry[T]{ch: make(chan T, 1)}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return func() {}, func(context.Context) (T, error) {
			var zero T
			return zero, kerr.New("waitlist.Wait", kerr.NotExist)
		}
	}
	l.waiters = append(l.waiters, e)
	l.mu.Unlock()

	cancel = func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, w := range l.waiters {
			if w == e {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				break
			}
		}
	}
	wait = func(ctx context.Context) (T, error) {
		select {
		case v, ok := <-e.ch:
			if !ok {
				var zero T
				return zero, kerr.New("waitlist.Wait", kerr.NotExist)
			}
			return v, nil
		case <-ctx.Done():
			var zero T
			return zero, kerr.Wrap("waitlist.Wait", kerr.Again, ctx.Err())
		}
	}
	return cancel, wait
}

// TryWakeup wakes the longest-waiting blocked goroutine, if any, delivering
// cmd to it, and returns kerr.Again if the list is empty (the non-blocking
// trywakeup_waitlist counterpart to Wait).
func (l *List[T]) TryWakeup(cmd T) error {
	l.mu.Lock()
	if len(l.waiters) == 0 {
		l.mu.Unlock()
		return kerr.New("waitlist.TryWakeup", kerr.Again)
	}
	e := l.waiters[0]
	l.waiters = l.waiters[1:]
	l.mu.Unlock()
	e.ch <- cmd
	return nil
}

// WakeAll wakes every currently blocked waiter, delivering cmd to each.
func (l *List[T]) WakeAll(cmd T) {
	l.mu.Lock()
	waiters := l.waiters
	l.waiters = nil
	l.mu.Unlock()
	for _, e := range waiters {
		e.ch <- cmd
	}
}

// Len returns the number of currently blocked waiters.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiters)
}

// Free releases every blocked waiter with kerr.NotExist and marks the list
// unusable, the same teardown trywakeup_waitlist's callers rely on before
// freeing the backing memory.
func (l *List[T]) Free() {
	l.mu.Lock()
	l.closed = true
	waiters := l.waiters
	l.waiters = nil
	l.mu.Unlock()
	for _, e := range waiters {
		close(e.ch)
	}
}
