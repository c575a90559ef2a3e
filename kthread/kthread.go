// Package kthread models cooperative worker threads, in the style of
// original_source/C-kern/platform/Linux/task/thread.c: a thread runs a
// function on its own OS thread, can be suspended and resumed via a
// dedicated signal, and threads are created transactionally in groups (all
// succeed or the whole group is torn down).
//
// Go has no public API for a pthread-style guard-paged stack frame or
// per-thread real-time signal; a goroutine pinned with runtime.LockOSThread
// stands in for the OS thread, and suspend/resume is modeled with a
// buffered channel the same way rtsignal emulates queued signal delivery:
// at most one pending suspend survives, matching the original's note that
// the suspend signal is blocked (queued, not lost) while a thread is
// already suspended.
package kthread

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/joeycumines/go-corekernel/internal/klog"
	"github.com/joeycumines/go-corekernel/kerr"
)

var log = klog.Component("kthread")

// State is a Thread's lifecycle state.
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateDone
)

// Thread is one cooperative worker.
type Thread struct {
	fn       func(ctx context.Context) error
	suspend  chan struct{}
	resume   chan struct{}
	done     chan struct{}
	err      error
	mu       sync.Mutex
	state    State
}

func newThread(fn func(ctx context.Context) error) *Thread {
	return &Thread{
		fn:      fn,
		suspend: make(chan struct{}, 1),
		resume:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		state:   StateRunning,
	}
}

func (t *Thread) run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	wrapped := func() error {
		return t.fn(t.wrapContext(ctx))
	}
	t.err = wrapped()
	t.mu.Lock()
	t.state = StateDone
	t.mu.Unlock()
}

// markAborted finishes t without ever invoking its function, the fate of a
// staged thread caught on the losing side of a group's isvalid_abort
// handshake.
func (t *Thread) markAborted(err error) {
	t.err = err
	t.mu.Lock()
	t.state = StateDone
	t.mu.Unlock()
	close(t.done)
}

// wrapContext returns the context handed to t's function. The wrapper adds
// no behavior of its own: a Suspend takes effect only where the function
// calls CheckSuspend.
func (t *Thread) wrapContext(ctx context.Context) context.Context {
	return &suspendAwareContext{Context: ctx, t: t}
}

type suspendAwareContext struct {
	context.Context
	t *Thread
}

// Suspend requests that t pause at its next cooperative checkpoint
// (checked via CheckSuspend inside the thread's own function body, the Go
// analogue of delivering the suspend signal). At most one request is
// pending: a Suspend issued while an earlier one is still unconsumed merges
// with it, while one issued after the thread has suspended is queued for
// its next checkpoint.
func (t *Thread) Suspend() {
	select {
	case t.suspend <- struct{}{}:
	default:
	}
}

// Resume releases a suspended thread.
func (t *Thread) Resume() {
	select {
	case t.resume <- struct{}{}:
	default:
	}
}

// CheckSuspend is called from within the running function to honor a
// pending Suspend request, blocking until Resume or ctx cancellation.
func (t *Thread) CheckSuspend(ctx context.Context) error {
	select {
	case <-t.suspend:
	default:
		return nil
	}
	t.mu.Lock()
	t.state = StateSuspended
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.state = StateRunning
		t.mu.Unlock()
	}()
	select {
	case <-t.resume:
		return nil
	case <-ctx.Done():
		return kerr.Wrap("kthread.CheckSuspend", kerr.Again, ctx.Err())
	}
}

// State returns t's current lifecycle state.
func (t *Thread) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Join blocks until t's function returns, then returns its error.
func (t *Thread) Join() error {
	<-t.done
	return t.err
}

// TryJoin reports whether t has finished without blocking, returning
// kerr.Again if it has not.
func (t *Thread) TryJoin() (bool, error) {
	select {
	case <-t.done:
		return true, t.err
	default:
		return false, kerr.New("kthread.TryJoin", kerr.Again)
	}
}

// Group creates a set of threads transactionally: either every thread in
// the group starts running its function, or (if ctx is canceled while
// Commit is still spawning, or the caller calls Abort before Commit) none
// of them do, via the isvalid_abort/isfreeable counting-semaphore handshake
// newgroup_thread uses to avoid leaving a partially started group behind.
// Every child first acquires one unit of isvalidAbort (posted N times by
// the creator once its spawn loop ends, whether or not the loop was cut
// short) and then checks the group's abort flag before running its
// function; the first child to finish its function drains isfreeable back
// to empty, the point at which the group's resources are safe to release.
type Group struct {
	ctx     context.Context
	valid   *semaphore.Weighted
	threads []*Thread
	started bool
}

// NewGroup begins building a thread group.
func NewGroup(ctx context.Context) *Group {
	return &Group{
		ctx:   ctx,
		valid: semaphore.NewWeighted(1),
	}
}

// Add stages fn as a member of the group; it does not run until Commit.
func (g *Group) Add(fn func(ctx context.Context) error) *Thread {
	t := newThread(fn)
	g.threads = append(g.threads, t)
	return t
}

// drainedSemaphore returns a counting semaphore of capacity n with zero
// permits immediately available, the Go stand-in for a POSIX semaphore
// initialized to zero: posting is Release(1), waiting is Acquire(ctx, 1).
func drainedSemaphore(n int) *semaphore.Weighted {
	sem := semaphore.NewWeighted(int64(n))
	if n > 0 {
		_ = sem.Acquire(context.Background(), int64(n))
	}
	return sem
}

// Commit starts every staged thread. If ctx is already canceled, Commit
// aborts the whole group (no thread runs) and returns a kerr.InvalidInput
// error wrapping ctx.Err(). If ctx is
// canceled partway through spawning (a concurrent cancellation racing the
// loop below), every thread already spawned observes the abort flag via
// isvalidAbort and finishes without ever calling its function.
func (g *Group) Commit() error {
	if err := g.ctx.Err(); err != nil {
		return kerr.Wrap("kthread.Group.Commit", kerr.InvalidInput, err)
	}
	if err := g.valid.Acquire(g.ctx, 1); err != nil {
		return kerr.Wrap("kthread.Group.Commit", kerr.Again, err)
	}
	defer g.valid.Release(1)

	n := len(g.threads)
	isValidAbort := drainedSemaphore(n)
	isFreeable := drainedSemaphore(n)
	var abort atomic.Bool
	var cleanup sync.Once

	for _, t := range g.threads {
		if g.ctx.Err() != nil {
			abort.Store(true)
			break
		}
		go g.runChild(t, isValidAbort, isFreeable, &abort, n, &cleanup)
	}

	// post isvalidAbort N times regardless of outcome: spawned children are
	// blocked waiting for exactly this post, and unspawned slots' permits
	// are simply never claimed.
	if n > 0 {
		isValidAbort.Release(int64(n))
	}

	if abort.Load() {
		return kerr.Wrap("kthread.Group.Commit", kerr.InvalidInput, g.ctx.Err())
	}

	g.started = true
	log.Info().Int64("count", int64(n)).Log("thread group committed")
	return nil
}

// runChild waits its turn on isvalidAbort before doing anything else. If
// the group aborted before posting, it finishes t without running fn; if
// not, it calls t.run and then participates in the isfreeable handshake:
// the first child to finish performs the group's teardown, waiting until
// every child has released isfreeable before logging the teardown line.
func (g *Group) runChild(t *Thread, isValidAbort, isFreeable *semaphore.Weighted, abort *atomic.Bool, n int, cleanup *sync.Once) {
	_ = isValidAbort.Acquire(context.Background(), 1)
	if abort.Load() {
		t.markAborted(kerr.New("kthread.Group.Commit", kerr.InvalidInput))
		return
	}
	t.run(g.ctx)
	_ = isFreeable.Release(1)
	cleanup.Do(func() {
		if n > 0 {
			_ = isFreeable.Acquire(context.Background(), int64(n))
		}
		log.Debug().Log("thread group destroyed")
	})
}

// Abort tears down a group that was never committed; committed groups must
// be torn down via Join on each member instead.
func (g *Group) Abort() error {
	if g.started {
		return kerr.New("kthread.Group.Abort", kerr.InvalidInput)
	}
	g.threads = nil
	return nil
}

// Threads returns the group's members, valid after Commit.
func (g *Group) Threads() []*Thread { return g.threads }
