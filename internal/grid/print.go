package grid

import "golang.org/x/text/unicode/norm"

// Print places ch (already decoded; width is its display width, 1 or 2, or 0
// for a combining mark) at the cursor, honoring pending-wrap, autowrap, and
// insert mode (spec §4.2 "Print"). A width-0 rune never occupies a cell of
// its own; printCombining tries to fold it onto the previously printed cell
// instead.
func (g *Grid) Print(ch rune, width int) {
	if width <= 0 {
		g.printCombining(ch)
		return
	}

	if g.Cursor.PendingWrap && g.Modes.AutoWrap {
		g.wrapToNextLine()
	}

	right := g.effectiveRight()
	if g.Cursor.Col+width > right {
		if g.Modes.AutoWrap {
			g.wrapToNextLine()
		} else {
			// Autowrap off: VT convention clamps to the last column and
			// overwrites it rather than extending past the margin.
			g.Cursor.Col = right - width
			if g.Cursor.Col < g.effectiveLeft() {
				g.Cursor.Col = g.effectiveLeft()
			}
		}
	}

	if g.Modes.Insert {
		g.insertBlanksAt(g.Cursor.Row, g.Cursor.Col, width)
	}

	row := g.Row(g.Cursor.Row)
	if row != nil {
		cells := row.Cells()
		col := g.Cursor.Col
		if col >= 0 && col < len(cells) {
			cells[col] = g.Template.Cell
			cells[col].Char = ch
			cells[col].ClearFlag(FlagWide | FlagWidePlaceholder)
			if width == 2 {
				cells[col].SetFlag(FlagWide)
			}
			cells[col].MarkDirty()
			if width == 2 && col+1 < len(cells) {
				cells[col+1] = Cell{Bg: g.Template.Bg, Flags: FlagWidePlaceholder}
				cells[col+1].MarkDirty()
			}
		}
		row.Dirty = true
		g.hasDirty = true
	}

	g.Cursor.Col += width
	if g.Cursor.Col >= right {
		g.Cursor.Col = right - 1
		g.Cursor.PendingWrap = true
	} else {
		g.Cursor.PendingWrap = false
	}
}

// printCombining folds a zero-width combining mark onto the previously
// printed cell via Unicode NFC composition, since Cell stores one scalar
// rune rather than a grapheme cluster. A base+mark pair with no precomposed
// form (most combining marks outside the common Latin/Greek/Cyrillic
// accents) is dropped rather than given a cell of its own, which would
// render as a stray mark floating over the wrong glyph.
func (g *Grid) printCombining(mark rune) {
	col := g.Cursor.Col - 1
	if g.Cursor.PendingWrap {
		col = g.Cursor.Col
	}
	if col < 0 {
		return
	}
	row := g.Row(g.Cursor.Row)
	if row == nil {
		return
	}
	cells := row.Cells()
	if col >= len(cells) || cells[col].IsWidePlaceholder() {
		return
	}
	base := cells[col].Char
	if base == 0 {
		return
	}

	composed := norm.NFC.String(string([]rune{base, mark}))
	if r := []rune(composed); len(r) == 1 && r[0] != base {
		cells[col].Char = r[0]
		cells[col].MarkDirty()
		row.Dirty = true
		g.hasDirty = true
	}
}

// wrapToNextLine performs the LF+CR implied by autowrap, scrolling the
// scroll region if the cursor is already on the last line of it.
func (g *Grid) wrapToNextLine() {
	if row := g.Row(g.Cursor.Row); row != nil {
		row.Wrapped = true
	}
	g.Cursor.Col = g.effectiveLeft()
	g.Cursor.PendingWrap = false
	g.LineFeed()
}

// insertBlanksAt shifts cells at/after col right by n within the current
// line's margins, discarding cells pushed past the right margin.
func (g *Grid) insertBlanksAt(row, col, n int) {
	r := g.Row(row)
	if r == nil {
		return
	}
	cells := r.Cells()
	right := g.effectiveRight()
	if right > len(cells) {
		right = len(cells)
	}
	for c := right - 1; c >= col+n; c-- {
		cells[c] = cells[c-n]
		cells[c].MarkDirty()
	}
	for c := col; c < col+n && c < right; c++ {
		cells[c].ResetPreservingBackground(g.Template.Bg)
		cells[c].MarkDirty()
	}
	r.Dirty = true
	g.hasDirty = true
}
