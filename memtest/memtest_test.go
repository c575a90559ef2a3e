package memtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocValidateFree(t *testing.T) {
	a := NewArena()
	defer a.Close()

	b, err := a.Alloc(128)
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	copy(b.Bytes(), []byte("hello"))
	assert.Equal(t, byte('h'), b.Bytes()[0])
	require.NoError(t, b.Validate())
	require.NoError(t, a.Free(b))
}

func TestResizeCopiesContent(t *testing.T) {
	a := NewArena()
	defer a.Close()

	b, err := a.Alloc(8)
	require.NoError(t, err)
	copy(b.Bytes(), []byte("12345678"))

	b2, err := a.Resize(b, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345678"), b2.Bytes()[:8])
}

func TestFailNextResizeInjectsOutOfMemory(t *testing.T) {
	a := NewArena()
	defer a.Close()
	b, err := a.Alloc(8)
	require.NoError(t, err)

	a.FailNextResize()
	_, err = a.Resize(b, 16)
	require.Error(t, err)

	_, err = a.Resize(b, 16)
	require.NoError(t, err)
}

func TestStatsTracksLiveBlocks(t *testing.T) {
	a := NewArena()
	defer a.Close()
	b1, err := a.Alloc(8)
	require.NoError(t, err)
	_, err = a.Alloc(8)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Stats().LiveBlocks)
	require.NoError(t, a.Free(b1))
	assert.Equal(t, 1, a.Stats().LiveBlocks)
}

func TestResizeInPlaceKeepsSameOffset(t *testing.T) {
	a := NewArena()
	defer a.Close()
	b, err := a.Alloc(8)
	require.NoError(t, err)
	before := b.offset

	b2, err := a.Resize(b, 32)
	require.NoError(t, err)
	assert.Equal(t, before, b2.offset)
	assert.Same(t, b.page, b2.page)
}

func TestResizeNonLastBlockFallsBackToCopy(t *testing.T) {
	a := NewArena()
	defer a.Close()
	b1, err := a.Alloc(8)
	require.NoError(t, err)
	copy(b1.Bytes(), []byte("12345678"))
	_, err = a.Alloc(8) // b1 is no longer the last block on its page
	require.NoError(t, err)

	b2, err := a.Resize(b1, 16)
	require.NoError(t, err)
	assert.NotEqual(t, b1.offset, b2.offset)
	assert.Equal(t, []byte("12345678"), b2.Bytes()[:8])
}

func TestFreeLastBlockReclaimsPageSpace(t *testing.T) {
	a := NewArena()
	defer a.Close()
	b1, err := a.Alloc(8)
	require.NoError(t, err)
	offset := b1.offset
	require.NoError(t, a.Free(b1))

	b2, err := a.Alloc(8)
	require.NoError(t, err)
	assert.Equal(t, offset, b2.offset)
}

func TestFreeEmptyingNonRootPageUnmapsIt(t *testing.T) {
	a := NewArena()
	defer a.Close()
	root, err := a.Alloc(8)
	require.NoError(t, err)

	big := a.pagesize * 2
	second, err := a.Alloc(big)
	require.NoError(t, err)
	require.Equal(t, 2, a.Stats().PageCount)
	require.NotSame(t, root.page, second.page)

	require.NoError(t, a.Free(second))
	assert.Equal(t, 1, a.Stats().PageCount)
}
