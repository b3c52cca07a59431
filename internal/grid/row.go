package grid

import "image/color"

// Row is one line of the grid: a page-pool-backed cell slice plus line-level
// flags. Row values are cheap to move (a handle + two bools + pointer), so
// Grid scrolling rotates Row values instead of copying cell arrays.
type Row struct {
	handle    RowHandle
	Wrapped   bool // line continues on the next row (vs. an explicit newline)
	Dirty     bool
	Hyperlink *Hyperlink // default hyperlink for cells written without an explicit one
}

// newRow allocates a fresh page-backed row from pool.
func newRow(pool *PagePool) Row {
	slot, gen, _ := pool.Alloc()
	return Row{handle: NewRowHandle(pool, slot, gen)}
}

// Cells returns the row's live cell slice. Panics if the handle has gone
// stale, which would indicate a Grid bug (a freed row reused without
// reallocating its handle) rather than a recoverable condition.
func (r *Row) Cells() []Cell {
	cells := r.handle.Cells()
	if cells == nil {
		panic("grid: stale row handle dereferenced")
	}
	return cells
}

// Len returns the row's column count (the pool's fixed page size).
func (r *Row) Len() int {
	return len(r.handle.Cells())
}

// Clear resets every cell to its default value and marks the row dirty.
func (r *Row) Clear() {
	cells := r.Cells()
	for i := range cells {
		cells[i].Reset()
		cells[i].MarkDirty()
	}
	r.Wrapped = false
	r.Hyperlink = nil
	r.Dirty = true
}

// ClearRange resets cells in [start, end) to default, preserving bg.
func (r *Row) ClearRange(start, end int, bg color.Color) {
	cells := r.Cells()
	if start < 0 {
		start = 0
	}
	if end > len(cells) {
		end = len(cells)
	}
	for c := start; c < end; c++ {
		cells[c].ResetPreservingBackground(bg)
		cells[c].MarkDirty()
	}
	r.Dirty = true
}

// release frees the row's page back to the pool.
func (r *Row) release() {
	r.handle.Release()
}

// Valid reports whether the row's backing page is still the one it was
// allocated from (i.e. nobody freed it out from under a retained Row value).
func (r *Row) Valid() bool {
	return r.handle.Valid()
}
