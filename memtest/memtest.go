// Package memtest implements a guard-paged bump-allocator test memory
// arena, in the style of
// original_source/C-kern/platform/Linux/io/mm/mmtest.c: allocations are
// bumped from the start of each page's free region, a block that sits last
// before the free pointer can be resized in place or reabsorbed on free,
// and a page that drops to zero live blocks (other than the root page) is
// unmapped immediately rather than held until the whole Arena closes.
// Every page is bracketed by PROT_NONE guard pages, so an access past
// either end of a page faults immediately; blocks within a page sit next to
// each other, so an overrun into a neighboring block does not fault. Every
// block carries a header/trailer checksum so such corruption, or use of a
// stale pointer, is caught on resize/free.
package memtest

import (
	"encoding/binary"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/joeycumines/go-corekernel/internal/klog"
	"github.com/joeycumines/go-corekernel/kerr"
)

var log = klog.Component("memtest")

const (
	fillByte     byte = 0xAA
	headerMagic       = 0xC0DEFEED
	trailerMagic      = 0xFEEDC0DE
	headerSize        = 16 // magic(4) + size(8) + pad(4)
	trailerSize       = 4
)

// page is one mmap'd region: [guard][usable][guard]. free is the bump
// offset into usable at which the next allocation starts; live counts
// blocks carved from this page that have not yet been freed.
type page struct {
	base     []byte
	usable   []byte
	pagesize int
	free     int
	live     int
}

// Block identifies a single live allocation within an Arena.
type Block struct {
	page   *page
	offset int
	size   int
}

// Arena is a test memory arena: a bump allocator over guard-paged pages,
// intended for exercising allocation-failure and use-after-free paths in
// tests, not for production allocation.
type Arena struct {
	mu             sync.Mutex
	pagesize       int
	pages          []*page
	live           int
	failNextResize bool
	failNextFree   bool
}

// NewArena creates an Arena using the process's native page size.
func NewArena() *Arena {
	return &Arena{pagesize: unix.Getpagesize()}
}

func (a *Arena) newPage(minSize int) (*page, error) {
	ps := a.pagesize
	usablePages := (minSize + ps - 1) / ps
	if usablePages < 1 {
		usablePages = 1
	}
	total := ps * (usablePages + 2)
	base, err := unix.Mmap(-1, 0, total, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, kerr.Wrap("memtest.newPage", kerr.OutOfMemory, err)
	}
	usable := base[ps : ps+ps*usablePages]
	if err := unix.Mprotect(usable, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		_ = unix.Munmap(base)
		return nil, kerr.Wrap("memtest.newPage", kerr.OutOfMemory, err)
	}
	for i := range usable {
		usable[i] = fillByte
	}
	return &page{base: base, usable: usable, pagesize: ps}, nil
}

func writeHeader(buf []byte, size int) {
	binary.LittleEndian.PutUint32(buf[0:4], headerMagic)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(size))
}

func checkHeader(buf []byte) (int, bool) {
	if binary.LittleEndian.Uint32(buf[0:4]) != headerMagic {
		return 0, false
	}
	return int(binary.LittleEndian.Uint64(buf[4:12])), true
}

func writeTrailer(buf []byte) {
	binary.LittleEndian.PutUint32(buf, trailerMagic)
}

func checkTrailer(buf []byte) bool {
	return binary.LittleEndian.Uint32(buf) == trailerMagic
}

// blockEnd returns the offset one past b's trailer, the value compared
// against its page's free pointer to decide whether b is the last block
// bumped out of that page.
func blockEnd(offset, size int) int {
	return offset + size + trailerSize
}

// currentPage returns the arena's most recently mapped page, if any.
func (a *Arena) currentPage() *page {
	if len(a.pages) == 0 {
		return nil
	}
	return a.pages[len(a.pages)-1]
}

// bump carves total bytes from p's free region, growing the arena with a
// fresh page first if p is nil or has no room.
func (a *Arena) bump(total int) (*page, int, error) {
	p := a.currentPage()
	if p == nil || p.free+total > len(p.usable) {
		np, err := a.newPage(total)
		if err != nil {
			return nil, 0, err
		}
		a.pages = append(a.pages, np)
		p = np
	}
	offset := p.free
	p.free += total
	return p, offset, nil
}

// Alloc reserves size bytes, returning a Block whose Bytes are addressable
// and whose integrity (headers/trailer) Validate checks.
func (a *Arena) Alloc(size int) (*Block, error) {
	if size < 0 {
		return nil, kerr.New("memtest.Alloc", kerr.InvalidInput)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocLocked(size)
}

func (a *Arena) allocLocked(size int) (*Block, error) {
	total := headerSize + size + trailerSize
	p, base, err := a.bump(total)
	if err != nil {
		return nil, err
	}
	writeHeader(p.usable[base:base+headerSize], size)
	writeTrailer(p.usable[base+headerSize+size : base+total])
	p.live++
	a.live++
	log.Debug().Int64("size", int64(size)).Log("arena block allocated")
	return &Block{page: p, offset: base + headerSize, size: size}, nil
}

// Bytes returns the block's usable memory (excluding header/trailer and
// guard pages).
func (b *Block) Bytes() []byte {
	return b.page.usable[b.offset : b.offset+b.size]
}

// Validate reports whether b's header/trailer checksums are intact.
func (b *Block) Validate() error {
	gotSize, ok := checkHeader(b.page.usable[b.offset-headerSize : b.offset])
	if !ok || gotSize != b.size {
		return kerr.New("memtest.Validate", kerr.InvalidInput)
	}
	if !checkTrailer(b.page.usable[b.offset+b.size : b.offset+b.size+trailerSize]) {
		return kerr.New("memtest.Validate", kerr.InvalidInput)
	}
	return nil
}

// FailNextResize arms a one-shot fault injector: the next Resize call fails
// with kerr.OutOfMemory without touching memory, matching
// setresizeerr_mmtest.
func (a *Arena) FailNextResize() {
	a.mu.Lock()
	a.failNextResize = true
	a.mu.Unlock()
}

// FailNextFree arms a one-shot fault injector for Free, matching
// setfreeerr_mmtest.
func (a *Arena) FailNextFree() {
	a.mu.Lock()
	a.failNextFree = true
	a.mu.Unlock()
}

// Resize grows or shrinks b to newSize. If b is the last block bumped from
// its page and the new size still fits within that page, the resize
// happens in place by moving the page's free pointer; otherwise a fresh
// block is allocated, the content copied, and b freed, matching the
// original's fallback for a block that cannot be extended in place.
func (a *Arena) Resize(b *Block, newSize int) (*Block, error) {
	if newSize < 0 {
		return nil, kerr.New("memtest.Resize", kerr.InvalidInput)
	}
	a.mu.Lock()
	if a.failNextResize {
		a.failNextResize = false
		a.mu.Unlock()
		return nil, kerr.New("memtest.Resize", kerr.OutOfMemory)
	}
	defer a.mu.Unlock()

	if err := b.Validate(); err != nil {
		return nil, err
	}

	base := b.offset - headerSize
	last := blockEnd(b.offset, b.size) == b.page.free
	total := headerSize + newSize + trailerSize
	if last && base+total <= len(b.page.usable) {
		writeHeader(b.page.usable[base:base+headerSize], newSize)
		writeTrailer(b.page.usable[base+headerSize+newSize : base+total])
		b.page.free = base + total
		b.size = newSize
		return b, nil
	}

	nb, err := a.allocLocked(newSize)
	if err != nil {
		return nil, err
	}
	n := newSize
	if b.size < n {
		n = b.size
	}
	copy(nb.Bytes(), b.Bytes()[:n])
	if err := a.freeLocked(b); err != nil {
		return nil, err
	}
	return nb, nil
}

// Free releases b. If b is the last block bumped from its page, its space
// is reabsorbed into the page's free region immediately; otherwise it is
// merely poisoned and marked dead so a reuse is caught by Validate, the
// same way a freed block in the middle of the original's bump region stays
// reserved until unmapping the whole page. A page that reaches zero live
// blocks is unmapped immediately, unless it is the arena's root (first)
// page, which is kept until Close.
func (a *Arena) Free(b *Block) error {
	a.mu.Lock()
	if a.failNextFree {
		a.failNextFree = false
		a.mu.Unlock()
		return kerr.New("memtest.Free", kerr.OutOfMemory)
	}
	defer a.mu.Unlock()
	return a.freeLocked(b)
}

func (a *Arena) freeLocked(b *Block) error {
	if err := b.Validate(); err != nil {
		return err
	}
	base := b.offset - headerSize
	for i := base; i < blockEnd(b.offset, b.size); i++ {
		b.page.usable[i] = fillByte
	}
	if blockEnd(b.offset, b.size) == b.page.free {
		b.page.free = base
	}
	b.page.live--
	a.live--

	if b.page.live == 0 && b.page != a.pages[0] {
		for i, p := range a.pages {
			if p == b.page {
				a.pages = append(a.pages[:i], a.pages[i+1:]...)
				break
			}
		}
		if err := unix.Munmap(b.page.base); err != nil {
			return kerr.Wrap("memtest.Free", kerr.OutOfMemory, err)
		}
	}
	return nil
}

// Stats is a read-only snapshot of an Arena's bookkeeping.
type Stats struct {
	PageCount   int
	LiveBlocks  int
	BytesMapped int
}

// Stats returns a snapshot of a's current state.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, p := range a.pages {
		total += len(p.base)
	}
	return Stats{PageCount: len(a.pages), LiveBlocks: a.live, BytesMapped: total}
}

// Close unmaps every page the arena still holds.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var first error
	for _, p := range a.pages {
		if err := unix.Munmap(p.base); err != nil && first == nil {
			first = kerr.Wrap("memtest.Close", kerr.OutOfMemory, err)
		}
	}
	a.pages = nil
	return first
}
