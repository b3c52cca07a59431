package grid

// Resize changes the grid's dimensions, preserving content at the top-left
// corner (spec §4.2 "Resize"). Because PagePool pages are fixed-width, a
// column change always allocates a fresh pool sized to the new width; old
// pages are released back to the old pool so they can be garbage collected
// rather than held onto as dead capacity.
func (g *Grid) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == g.Rows() && cols == g.cols {
		return
	}

	newPool := NewPagePool(cols)
	newRows := make([]Row, rows)
	for i := range newRows {
		newRows[i] = newRow(newPool)
	}

	minRows := min(rows, g.Rows())
	minCols := min(cols, g.cols)
	for i := 0; i < minRows; i++ {
		oldCells := g.rows[i].Cells()
		newCells := newRows[i].Cells()
		copy(newCells[:minCols], oldCells[:minCols])
		newRows[i].Wrapped = g.rows[i].Wrapped
		newRows[i].Hyperlink = g.rows[i].Hyperlink
		for c := range newCells {
			newCells[c].MarkDirty()
		}
	}

	for i := range g.rows {
		g.rows[i].release()
	}

	g.rows = newRows
	g.pool = newPool
	g.cols = cols

	newTabs := make([]bool, cols)
	copy(newTabs, g.tabStops)
	for i := len(g.tabStops); i < cols; i += 8 {
		newTabs[i] = true
	}
	g.tabStops = newTabs

	g.Cursor.Row = clampInt(g.Cursor.Row, 0, rows-1)
	g.Cursor.Col = clampInt(g.Cursor.Col, 0, cols-1)
	g.Cursor.PendingWrap = false

	// A Wide char that now lands on the trailing column has no room for its
	// placeholder: clear it rather than leave a dangling invariant violation.
	for r := 0; r < rows; r++ {
		if cell := g.Cell(r, cols-1); cell != nil && cell.IsWide() {
			cell.Reset()
			cell.MarkDirty()
		}
	}
	g.snapCursorOffWidePlaceholder()

	g.ScrollTop, g.ScrollBottom = 0, rows
	g.ScrollLeft, g.ScrollRight = 0, cols
	g.marginsEnabled = false
	g.hasDirty = true
}

// GrowRows appends n blank rows at the bottom and extends the scroll region
// to the new last row. The Terminal does not call it.
func (g *Grid) GrowRows(n int) {
	if n < 1 {
		return
	}
	for i := 0; i < n; i++ {
		g.rows = append(g.rows, newRow(g.pool))
	}
	g.ScrollBottom = g.Rows()
	g.hasDirty = true
}
