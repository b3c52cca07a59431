package grid

import "sync"

// PagePool allocates fixed-width row pages and recycles them on Free. Each
// allocation returns a slot index plus the slot's current generation; a
// RowHandle is valid iff its generation still matches the slot's current
// generation. Free bumps the generation so any handle retained past a Free
// call becomes detectably stale instead of aliasing the next tenant.
//
// A PagePool is not shared across terminals (spec §5): each Grid owns one.
type PagePool struct {
	mu         sync.Mutex
	pageSize   int
	pages      [][]Cell
	generation []uint64
	free       []int
	allocated  int
}

// NewPagePool creates a pool whose pages hold pageSize cells each.
func NewPagePool(pageSize int) *PagePool {
	if pageSize < 1 {
		pageSize = 1
	}
	return &PagePool{pageSize: pageSize}
}

// PageSize returns the fixed cell count of every page in this pool.
func (p *PagePool) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// Alloc reserves a page, growing the backing arena if the free list is
// empty. Every returned cell is reset to Default() (a blank space with
// default attributes) here, whether the page is new or reused; Free does not
// clear a page.
func (p *PagePool) Alloc() (slot int, generation uint64, cells []Cell) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.free); n > 0 {
		slot = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		slot = len(p.pages)
		p.pages = append(p.pages, make([]Cell, p.pageSize))
		p.generation = append(p.generation, 0)
	}

	for i := range p.pages[slot] {
		p.pages[slot][i] = Default()
	}
	p.allocated++
	return slot, p.generation[slot], p.pages[slot]
}

// Free returns a slot to the free list and bumps its generation, so any
// RowHandle still referencing (slot, oldGeneration) fails Valid().
func (p *PagePool) Free(slot int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if slot < 0 || slot >= len(p.pages) {
		return
	}
	p.generation[slot]++
	p.free = append(p.free, slot)
	p.allocated--
}

// Generation returns the slot's current generation (used by RowHandle.Valid).
func (p *PagePool) Generation(slot int) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if slot < 0 || slot >= len(p.generation) {
		return ^uint64(0)
	}
	return p.generation[slot]
}

// Cells returns the live backing slice for slot, regardless of generation.
// Callers must check Generation themselves (via RowHandle.Valid) before
// trusting the contents belong to the handle they hold.
func (p *PagePool) Cells(slot int) []Cell {
	p.mu.Lock()
	defer p.mu.Unlock()
	if slot < 0 || slot >= len(p.pages) {
		return nil
	}
	return p.pages[slot]
}

// Allocated returns the number of currently-outstanding (non-free) pages.
func (p *PagePool) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}

// Capacity returns the total number of pages ever allocated (free + in-use).
func (p *PagePool) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

// RowHandle is a generation-checked reference to one page in a PagePool.
type RowHandle struct {
	pool       *PagePool
	slot       int
	generation uint64
}

// NewRowHandle wraps a freshly allocated page.
func NewRowHandle(pool *PagePool, slot int, generation uint64) RowHandle {
	return RowHandle{pool: pool, slot: slot, generation: generation}
}

// Valid reports whether the slot's pool generation still matches the
// generation recorded at allocation time. An invalid handle must never be
// dereferenced — Cells returns nil rather than aliasing a recycled page.
func (h RowHandle) Valid() bool {
	return h.pool != nil && h.pool.Generation(h.slot) == h.generation
}

// Cells returns the handle's backing cell slice, or nil if the handle has
// gone stale (its page was freed and possibly reissued).
func (h RowHandle) Cells() []Cell {
	if !h.Valid() {
		return nil
	}
	return h.pool.Cells(h.slot)
}

// Release frees the underlying page. After Release, Valid() is false for
// this handle and any copies of it.
func (h RowHandle) Release() {
	if h.pool != nil {
		h.pool.Free(h.slot)
	}
}
