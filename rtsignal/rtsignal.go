// Package rtsignal emulates the 16 reserved real-time signal slots of
// original_source/C-kern/platform/Linux/sync/signal.c (SIGRTMIN..SIGRTMIN+15,
// blocked process-wide and consumed via sigwaitinfo/sigtimedwait/sigqueue)
// as a fixed bank of per-index FIFO queues.
//
// Go's os/signal delivers real OS signals through a channel that can
// coalesce repeated deliveries of the same signal number, which does not
// match sigqueue's queued (counted) delivery semantics. Rather than losing
// queued wakeups under load, each slot here is backed by its own buffered
// Go channel acting as a counting queue; golang.org/x/sys/unix is used only
// to resolve the real SIGRTMIN base so slot numbering matches the
// platform's actual reserved range, should a caller need to correlate a
// slot with an OS signal number for logging. This divergence is recorded
// in DESIGN.md's rtsignal notes.
package rtsignal

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/joeycumines/go-corekernel/kerr"
)

// NumSlots is the number of reserved real-time signal slots.
const NumSlots = 16

// Base returns the OS signal number corresponding to slot 0, i.e. SIGRTMIN.
func Base() int { return int(unix.SIGRTMIN()) }

// Bank is a fixed set of NumSlots FIFO signal queues.
type Bank struct {
	slots [NumSlots]chan struct{}
}

// NewBank allocates a Bank with queueDepth pending signals of headroom per
// slot before Send fails with kerr.Again (sigqueue on Linux has a similar,
// if larger, queue-depth limit per rtsignal).
func NewBank(queueDepth int) *Bank {
	b := &Bank{}
	for i := range b.slots {
		b.slots[i] = make(chan struct{}, queueDepth)
	}
	return b
}

func (b *Bank) slot(index int) (chan struct{}, error) {
	if index < 0 || index >= NumSlots {
		return nil, kerr.New("rtsignal.slot", kerr.InvalidInput)
	}
	return b.slots[index], nil
}

// Send queues one signal on index, returning kerr.Again if the slot's queue
// is already at capacity (mirroring sigqueue's EAGAIN when the process's
// pending-signal limit is reached).
func (b *Bank) Send(index int) error {
	ch, err := b.slot(index)
	if err != nil {
		return err
	}
	select {
	case ch <- struct{}{}:
		return nil
	default:
		return kerr.New("rtsignal.Send", kerr.Again)
	}
}

// Wait blocks until n signals have been consumed from index, or ctx is
// done. A cancellation mid-wait leaves any signals already consumed by this
// call gone; it does not roll them back onto the slot.
func (b *Bank) Wait(ctx context.Context, index int, n int) error {
	ch, err := b.slot(index)
	if err != nil {
		return err
	}
	if n <= 0 {
		return kerr.New("rtsignal.Wait", kerr.InvalidInput)
	}
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-ctx.Done():
			return kerr.Wrap("rtsignal.Wait", kerr.Again, ctx.Err())
		}
	}
	return nil
}

// TryWait consumes a pending signal on index without blocking, returning
// kerr.Again if none is pending.
func (b *Bank) TryWait(index int) error {
	ch, err := b.slot(index)
	if err != nil {
		return err
	}
	select {
	case <-ch:
		return nil
	default:
		return kerr.New("rtsignal.TryWait", kerr.Again)
	}
}

// Pending reports how many signals are currently queued on index.
func (b *Bank) Pending(index int) (int, error) {
	ch, err := b.slot(index)
	if err != nil {
		return 0, err
	}
	return len(ch), nil
}
