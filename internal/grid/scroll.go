package grid

// SetScrollRegion sets DECSTBM top/bottom (0-based, bottom exclusive).
// Bounds outside the grid are clamped to it; a range that is still empty
// after clamping (top >= bottom) is ignored, per the VT convention of
// leaving margins unchanged on a bad request.
func (g *Grid) SetScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom > g.Rows() {
		bottom = g.Rows()
	}
	if top >= bottom {
		return
	}
	g.ScrollTop, g.ScrollBottom = top, bottom
	g.homeCursorToMargins()
}

// SetLeftRightMargin sets DECSLRM left/right (0-based, right exclusive).
// Enables left/right margin mode as a side effect, matching DECLRMM.
func (g *Grid) SetLeftRightMargin(left, right int) {
	if left < 0 {
		left = 0
	}
	if right > g.cols {
		right = g.cols
	}
	if left >= right {
		return
	}
	g.ScrollLeft, g.ScrollRight = left, right
	g.marginsEnabled = true
	g.homeCursorToMargins()
}

// SetMarginsEnabled toggles DECLRMM (left/right margin mode). Disabling it
// resets the left/right margins to the full grid width.
func (g *Grid) SetMarginsEnabled(enabled bool) {
	g.marginsEnabled = enabled
	if !enabled {
		g.ScrollLeft, g.ScrollRight = 0, g.cols
	}
}

func (g *Grid) homeCursorToMargins() {
	g.Cursor.Row = g.effectiveTop()
	g.Cursor.Col = g.effectiveLeft()
	g.Cursor.PendingWrap = false
}

// LineFeed implements LF/IND: move the cursor down one row, scrolling the
// scroll region if it is already on the last row of it.
func (g *Grid) LineFeed() {
	if g.Cursor.Row == g.ScrollBottom-1 {
		g.ScrollRegionUp(g.ScrollTop, g.ScrollBottom, 1)
		return
	}
	if g.Cursor.Row == g.Rows()-1 {
		return
	}
	g.Cursor.Row++
	g.Cursor.PendingWrap = false
}

// ReverseIndex implements RI: move the cursor up one row, scrolling down if
// it is already on the first row of the scroll region.
func (g *Grid) ReverseIndex() {
	if g.Cursor.Row == g.ScrollTop {
		g.ScrollRegionDown(g.ScrollTop, g.ScrollBottom, 1)
		return
	}
	if g.Cursor.Row == 0 {
		return
	}
	g.Cursor.Row--
	g.Cursor.PendingWrap = false
}

// ScrollUp implements SU: scroll the scroll region up by n (content moves
// up, blank lines appear at the bottom), without moving the cursor.
func (g *Grid) ScrollUp(n int) {
	if n < 1 {
		n = 1
	}
	g.ScrollRegionUp(g.ScrollTop, g.ScrollBottom, n)
}

// ScrollDown implements SD: scroll the scroll region down by n, without
// moving the cursor.
func (g *Grid) ScrollDown(n int) {
	if n < 1 {
		n = 1
	}
	g.ScrollRegionDown(g.ScrollTop, g.ScrollBottom, n)
}

// ScrollRegionUp moves rows [top+n,bottom) up to [top,bottom-n) and clears
// the vacated bottom rows. When the region spans the full untrimmed grid
// (top=0, bottom=Rows, no column margin) and a sink is attached, the rows
// scrolled off the top are pushed to scrollback in order (spec §4.2).
func (g *Grid) ScrollRegionUp(top, bottom, n int) {
	if top < 0 {
		top = 0
	}
	if bottom > g.Rows() {
		bottom = g.Rows()
	}
	if top >= bottom || n < 1 {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}

	fullWidth := g.ScrollLeft == 0 && g.ScrollRight == g.cols
	pushToScrollback := g.sink != nil && top == 0 && bottom == g.Rows() && fullWidth

	if fullWidth {
		if pushToScrollback {
			for i := 0; i < n; i++ {
				row := &g.rows[top+i]
				cells := make([]Cell, len(row.Cells()))
				copy(cells, row.Cells())
				g.sink.Push(cells, row.Wrapped)
			}
		}
		off := make([]Row, n)
		copy(off, g.rows[top:top+n])
		copy(g.rows[top:bottom-n], g.rows[top+n:bottom])
		for i := range off {
			off[i].Clear()
			g.rows[bottom-n+i] = off[i]
		}
		for r := top; r < bottom; r++ {
			g.rows[r].Dirty = true
		}
		g.hasDirty = true
		return
	}

	// Column-restricted scroll (DECSLRM active): shift cells within
	// [ScrollLeft,ScrollRight) for every affected row instead of rotating
	// whole rows.
	for row := top; row < bottom-n; row++ {
		dst := g.rows[row].Cells()
		src := g.rows[row+n].Cells()
		copy(dst[g.ScrollLeft:g.ScrollRight], src[g.ScrollLeft:g.ScrollRight])
		g.rows[row].Dirty = true
	}
	for row := bottom - n; row < bottom; row++ {
		g.rows[row].ClearRange(g.ScrollLeft, g.ScrollRight, g.Template.Bg)
	}
	g.hasDirty = true
}

// ScrollRegionDown moves rows [top,bottom-n) down to [top+n,bottom) and
// clears the vacated top rows. Never touches scrollback (only upward
// scroll-off is ever archived).
func (g *Grid) ScrollRegionDown(top, bottom, n int) {
	if top < 0 {
		top = 0
	}
	if bottom > g.Rows() {
		bottom = g.Rows()
	}
	if top >= bottom || n < 1 {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}

	fullWidth := g.ScrollLeft == 0 && g.ScrollRight == g.cols
	if fullWidth {
		off := make([]Row, n)
		copy(off, g.rows[bottom-n:bottom])
		copy(g.rows[top+n:bottom], g.rows[top:bottom-n])
		for i := range off {
			off[i].Clear()
			g.rows[top+i] = off[i]
		}
		for r := top; r < bottom; r++ {
			g.rows[r].Dirty = true
		}
		g.hasDirty = true
		return
	}

	for row := bottom - 1; row >= top+n; row-- {
		dst := g.rows[row].Cells()
		src := g.rows[row-n].Cells()
		copy(dst[g.ScrollLeft:g.ScrollRight], src[g.ScrollLeft:g.ScrollRight])
		g.rows[row].Dirty = true
	}
	for row := top; row < top+n; row++ {
		g.rows[row].ClearRange(g.ScrollLeft, g.ScrollRight, g.Template.Bg)
	}
	g.hasDirty = true
}

// InsertLines implements IL: insert n blank lines at the cursor row,
// shifting lines within the scroll region down.
func (g *Grid) InsertLines(n int) {
	if g.Cursor.Row < g.ScrollTop || g.Cursor.Row >= g.ScrollBottom {
		return
	}
	g.ScrollRegionDown(g.Cursor.Row, g.ScrollBottom, n)
}

// DeleteLines implements DL: delete n lines at the cursor row, shifting
// lines within the scroll region up.
func (g *Grid) DeleteLines(n int) {
	if g.Cursor.Row < g.ScrollTop || g.Cursor.Row >= g.ScrollBottom {
		return
	}
	g.ScrollRegionUp(g.Cursor.Row, g.ScrollBottom, n)
}

// InsertChars implements ICH: insert n blanks at the cursor column.
func (g *Grid) InsertChars(n int) {
	if n < 1 {
		n = 1
	}
	g.insertBlanksAt(g.Cursor.Row, g.Cursor.Col, n)
}

// DeleteChars implements DCH: delete n characters at the cursor column,
// shifting the remainder of the line (within the right margin) left.
func (g *Grid) DeleteChars(n int) {
	if n < 1 {
		n = 1
	}
	r := g.Row(g.Cursor.Row)
	if r == nil {
		return
	}
	cells := r.Cells()
	right := g.effectiveRight()
	col := g.Cursor.Col
	for c := col; c < right-n; c++ {
		cells[c] = cells[c+n]
		cells[c].MarkDirty()
	}
	for c := right - n; c < right; c++ {
		if c >= col {
			cells[c].ResetPreservingBackground(g.Template.Bg)
			cells[c].MarkDirty()
		}
	}
	r.Dirty = true
	g.hasDirty = true
}
