package rtsignal

import (
	"context"
	"testing"
	"time"

	"github.com/joeycumines/go-corekernel/kerr"
	"github.com/stretchr/testify/require"
)

func TestSendThenTryWaitConsumesOne(t *testing.T) {
	b := NewBank(4)
	require.NoError(t, b.Send(3))
	require.NoError(t, b.TryWait(3))
	err := b.TryWait(3)
	require.ErrorIs(t, err, kerr.Again)
}

func TestSendQueuesMultiple(t *testing.T) {
	b := NewBank(4)
	require.NoError(t, b.Send(0))
	require.NoError(t, b.Send(0))
	n, err := b.Pending(0)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestOutOfRangeIndexIsInvalidInput(t *testing.T) {
	b := NewBank(1)
	err := b.Send(NumSlots)
	require.ErrorIs(t, err, kerr.InvalidInput)
}

func TestWaitBlocksUntilCancel(t *testing.T) {
	b := NewBank(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := b.Wait(ctx, 5, 1)
	require.Error(t, err)
}

func TestWaitConsumesExactlyN(t *testing.T) {
	b := NewBank(4)
	require.NoError(t, b.Send(2))
	require.NoError(t, b.Send(2))
	require.NoError(t, b.Send(2))
	require.NoError(t, b.Wait(context.Background(), 2, 2))
	n, err := b.Pending(2)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
