package grid

// CursorUp moves the cursor up n rows (CUU), stopping at the scroll
// region's top when origin mode is on, else at row 0. Never scrolls.
func (g *Grid) CursorUp(n int) {
	if n < 1 {
		n = 1
	}
	g.Cursor.Row = clampInt(g.Cursor.Row-n, g.effectiveTop(), g.Rows()-1)
	g.Cursor.PendingWrap = false
	g.snapCursorOffWidePlaceholder()
}

// CursorDown moves the cursor down n rows (CUD). Never scrolls.
func (g *Grid) CursorDown(n int) {
	if n < 1 {
		n = 1
	}
	g.Cursor.Row = clampInt(g.Cursor.Row+n, 0, g.effectiveBottom()-1)
	g.Cursor.PendingWrap = false
	g.snapCursorOffWidePlaceholder()
}

// CursorForward moves the cursor right n columns (CUF).
func (g *Grid) CursorForward(n int) {
	if n < 1 {
		n = 1
	}
	g.Cursor.Col = clampInt(g.Cursor.Col+n, 0, g.effectiveRight()-1)
	g.Cursor.PendingWrap = false
}

// CursorBack moves the cursor left n columns (CUB).
func (g *Grid) CursorBack(n int) {
	if n < 1 {
		n = 1
	}
	g.Cursor.Col = clampInt(g.Cursor.Col-n, g.effectiveLeft(), g.cols-1)
	g.Cursor.PendingWrap = false
	g.snapCursorOffWidePlaceholder()
}

// CursorNextLine moves down n rows and to column 0 (CNL).
func (g *Grid) CursorNextLine(n int) {
	g.CursorDown(n)
	g.Cursor.Col = g.effectiveLeft()
}

// CursorPrevLine moves up n rows and to column 0 (CPL).
func (g *Grid) CursorPrevLine(n int) {
	g.CursorUp(n)
	g.Cursor.Col = g.effectiveLeft()
}

// CursorColumn sets the absolute column (CHA/HPA), 0-based, clamped to grid.
func (g *Grid) CursorColumn(col int) {
	g.Cursor.Col = clampInt(col, 0, g.cols-1)
	g.Cursor.PendingWrap = false
	g.snapCursorOffWidePlaceholder()
}

// CursorRowAbs sets the absolute row (VPA), 0-based, clamped to grid.
func (g *Grid) CursorRowAbs(row int) {
	g.Cursor.Row = clampInt(row, 0, g.Rows()-1)
	g.Cursor.PendingWrap = false
}

// CursorPosition sets both row and column (CUP/HVP), honoring origin mode:
// coordinates are relative to the scroll region's top-left when origin mode
// is on.
func (g *Grid) CursorPosition(row, col int) {
	top, left := 0, 0
	if g.Modes.Origin {
		top, left = g.ScrollTop, g.ScrollLeft
	}
	g.Cursor.Row = clampInt(top+row, 0, g.Rows()-1)
	g.Cursor.Col = clampInt(left+col, 0, g.cols-1)
	g.Cursor.PendingWrap = false
	g.snapCursorOffWidePlaceholder()
}

// SaveCursor stores a DECSC snapshot (position, SGR template, origin mode,
// charset state) for later RestoreCursor.
func (g *Grid) SaveCursor() {
	g.saved = &SavedCursor{
		Row:      g.Cursor.Row,
		Col:      g.Cursor.Col,
		Template: g.Template,
		Origin:   g.Modes.Origin,
		GL:       g.GL,
		GR:       g.GR,
		Charsets: g.Charsets,
	}
}

// RestoreCursor restores a prior SaveCursor snapshot (DECRC). If no snapshot
// was ever saved, it moves the cursor to home and resets the template to
// default attributes, matching VT convention for restore-before-save.
func (g *Grid) RestoreCursor() {
	if g.saved == nil {
		g.Cursor.Row, g.Cursor.Col = 0, 0
		g.Template = DefaultTemplate()
		return
	}
	g.Cursor.Row = clampInt(g.saved.Row, 0, g.Rows()-1)
	g.Cursor.Col = clampInt(g.saved.Col, 0, g.cols-1)
	g.Cursor.PendingWrap = false
	g.Template = g.saved.Template
	g.Modes.Origin = g.saved.Origin
	g.GL = g.saved.GL
	g.GR = g.saved.GR
	g.Charsets = g.saved.Charsets
}
