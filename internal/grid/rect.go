package grid

// Rectangular operations (DECERA/DECFRA/DECCARA/DECCRA/DECSERA) all take
// 1-based inclusive coordinates at the protocol layer; callers here pass
// already-converted 0-based inclusive (top, left, bottom, right) bounds,
// clamped to the scroll-region margins when origin mode requests it, per
// spec §4.2. CopyRect (DECCRA) clamps to the grid bounds only.

func (g *Grid) clampRect(top, left, bottom, right int) (int, int, int, int) {
	top = clampInt(top, g.effectiveTop(), g.effectiveBottom()-1)
	bottom = clampInt(bottom, g.effectiveTop(), g.effectiveBottom()-1)
	left = clampInt(left, g.effectiveLeft(), g.effectiveRight()-1)
	right = clampInt(right, g.effectiveLeft(), g.effectiveRight()-1)
	return top, left, bottom, right
}

// EraseRect implements DECERA: erase (to blank, default attributes) the
// cells within the rectangle, ignoring the protected attribute.
func (g *Grid) EraseRect(top, left, bottom, right int) {
	top, left, bottom, right = g.clampRect(top, left, bottom, right)
	for row := top; row <= bottom; row++ {
		cells := g.rows[row].Cells()
		for col := left; col <= right; col++ {
			cells[col].ResetPreservingBackground(g.Template.Bg)
			cells[col].MarkDirty()
		}
		g.rows[row].Dirty = true
	}
	g.hasDirty = true
}

// SelectiveEraseRect implements DECSERA: like DECERA but skips cells marked
// protected (DECSCA), clearing only character/color, never the flag itself.
func (g *Grid) SelectiveEraseRect(top, left, bottom, right int) {
	top, left, bottom, right = g.clampRect(top, left, bottom, right)
	for row := top; row <= bottom; row++ {
		cells := g.rows[row].Cells()
		for col := left; col <= right; col++ {
			if cells[col].IsProtected() {
				continue
			}
			cells[col].ResetPreservingBackground(g.Template.Bg)
			cells[col].MarkDirty()
		}
		g.rows[row].Dirty = true
	}
	g.hasDirty = true
}

// FillRect implements DECFRA: fill the rectangle with ch, keeping current
// template attributes, ignoring protection.
func (g *Grid) FillRect(ch rune, top, left, bottom, right int) {
	top, left, bottom, right = g.clampRect(top, left, bottom, right)
	for row := top; row <= bottom; row++ {
		cells := g.rows[row].Cells()
		for col := left; col <= right; col++ {
			cells[col] = g.Template.Apply(ch)
			cells[col].MarkDirty()
		}
		g.rows[row].Dirty = true
	}
	g.hasDirty = true
}

// SGRAttrChange describes one DECCARA attribute change: SGR parameter values
// 0,1,4,5,7,8. Value 0 (AttrReset) clears bold, underline, blink, reverse and
// conceal; the others turn one attribute on. Negated forms are not handled.
type SGRAttrChange int

const (
	AttrReset SGRAttrChange = iota
	AttrBold
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrConceal
)

// ChangeRectAttrs implements DECCARA: OR the named attributes onto every
// unprotected cell in the rectangle, without touching character or color.
func (g *Grid) ChangeRectAttrs(attrs []SGRAttrChange, top, left, bottom, right int) {
	top, left, bottom, right = g.clampRect(top, left, bottom, right)
	for row := top; row <= bottom; row++ {
		cells := g.rows[row].Cells()
		for col := left; col <= right; col++ {
			c := &cells[col]
			if c.IsProtected() {
				continue
			}
			for _, a := range attrs {
				switch a {
				case AttrReset:
					c.Flags &^= FlagBold | FlagReverse | FlagConceal
					c.Underline = UnderlineNone
					c.Blink = BlinkNone
				case AttrBold:
					c.SetFlag(FlagBold)
				case AttrUnderline:
					c.Underline = UnderlineSingle
				case AttrBlink:
					c.Blink = BlinkSlow
				case AttrReverse:
					c.SetFlag(FlagReverse)
				case AttrConceal:
					c.SetFlag(FlagConceal)
				}
			}
			c.MarkDirty()
		}
		g.rows[row].Dirty = true
	}
	g.hasDirty = true
}

// CopyRect implements DECCRA: copy a rectangle from a source grid (which may
// be g itself) to a destination top-left in g. Safe when src == g and the
// rectangles overlap: the source is snapshotted before any write.
func (g *Grid) CopyRect(src *Grid, srcTop, srcLeft, srcBottom, srcRight, dstTop, dstLeft int) {
	if src == nil {
		src = g
	}
	srcTop = clampInt(srcTop, 0, src.Rows()-1)
	srcBottom = clampInt(srcBottom, 0, src.Rows()-1)
	srcLeft = clampInt(srcLeft, 0, src.cols-1)
	srcRight = clampInt(srcRight, 0, src.cols-1)
	if srcTop > srcBottom || srcLeft > srcRight {
		return
	}

	h := srcBottom - srcTop + 1
	w := srcRight - srcLeft + 1
	if dstTop+h > g.Rows() {
		h = g.Rows() - dstTop
	}
	if dstLeft+w > g.cols {
		w = g.cols - dstLeft
	}
	if h <= 0 || w <= 0 {
		return
	}

	// Snapshot every source row up front so that an overlapping self-copy
	// never reads cells this same call already overwrote.
	snapshot := make([][]Cell, h)
	for i := 0; i < h; i++ {
		row := make([]Cell, w)
		copy(row, src.rows[srcTop+i].Cells()[srcLeft:srcLeft+w])
		snapshot[i] = row
	}

	for i := 0; i < h; i++ {
		dstCells := g.rows[dstTop+i].Cells()
		copy(dstCells[dstLeft:dstLeft+w], snapshot[i])
		for c := dstLeft; c < dstLeft+w; c++ {
			dstCells[c].MarkDirty()
		}
		g.rows[dstTop+i].Dirty = true
	}
	g.hasDirty = true
}
