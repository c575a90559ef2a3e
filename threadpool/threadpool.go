// Package threadpool implements a fixed-size worker pool on top of
// waitlist and kthread, in the style of
// original_source/C-kern/platform/Linux/task/threadpool.c: a pool starts N
// worker threads blocked on a wait list, and TryRunTask wakes exactly one
// idle worker, handing it the task directly as the waitlist's woken value
// (trywakeup_waitlist's `cmd`), returning kerr.Again when every worker is
// busy instead of queuing the task.
package threadpool

import (
	"context"
	"runtime"

	"github.com/joeycumines/go-corekernel/internal/klog"
	"github.com/joeycumines/go-corekernel/kerr"
	"github.com/joeycumines/go-corekernel/kthread"
	"github.com/joeycumines/go-corekernel/waitlist"
)

var log = klog.Component("threadpool")

// Pool is a fixed-size worker pool. Idle workers park on a waitlist.List
// whose woken value is the task to run, so TryRunTask's wakeup always
// reaches the one waiter it actually woke.
type Pool struct {
	idle   waitlist.List[func(context.Context)]
	ctx    context.Context
	cancel context.CancelFunc
	group  *kthread.Group
}

// New starts a pool of n workers, each blocked waiting for a task.
func New(ctx context.Context, n int) (*Pool, error) {
	if n <= 0 {
		return nil, kerr.New("threadpool.New", kerr.InvalidInput)
	}
	pctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		ctx:    pctx,
		cancel: cancel,
	}
	p.group = kthread.NewGroup(pctx)
	for i := 0; i < n; i++ {
		p.group.Add(p.worker)
	}
	if err := p.group.Commit(); err != nil {
		cancel()
		return nil, kerr.Wrap("threadpool.New", kerr.Again, err)
	}
	// return only once every worker is parked on the idle list.
	for p.idle.Len() < n && pctx.Err() == nil {
		runtime.Gosched()
	}
	log.Info().Int64("workers", int64(n)).Log("thread pool started")
	return p, nil
}

func (p *Pool) worker(ctx context.Context) error {
	for {
		cancel, wait := p.idle.Wait()
		task, err := wait(ctx)
		if err != nil {
			cancel()
			return nil
		}
		task(ctx)
	}
}

// TryRunTask wakes exactly one idle worker and hands it task, returning
// kerr.Again if every worker is currently busy.
func (p *Pool) TryRunTask(task func(ctx context.Context)) error {
	if err := p.idle.TryWakeup(task); err != nil {
		return kerr.Wrap("threadpool.TryRunTask", kerr.Again, err)
	}
	return nil
}

// Free stops accepting new tasks and waits for every worker to exit.
func (p *Pool) Free() error {
	p.cancel()
	p.idle.Free()
	for _, t := range p.group.Threads() {
		if err := t.Join(); err != nil {
			return err
		}
	}
	return nil
}
