package term

import (
	"fmt"

	"vtcore/internal/grid"
	"vtcore/internal/parser"
)

// dispatchCSI is the CSI final-byte/marker dispatch table (spec §6
// "Supported VT surface"). Grouped by final byte; markers ('?', '>', '=')
// and intermediates ('$', ' ', etc) disambiguate within a final byte where
// VT500 overloads it across private/DEC-specific variants.
func (t *Terminal) dispatchCSI(params *parser.Params, marker byte, intermediates []byte, final byte) {
	g := t.grid()
	n := func(def int32) int32 {
		v := params.Get(0, def)
		if v == 0 {
			return def
		}
		return v
	}

	if len(intermediates) == 1 {
		switch intermediates[0] {
		case '$':
			t.dispatchRectCSI(params, final)
			return
		case ' ':
			if final == 'q' {
				t.setCursorStyle(params.Get(0, 0))
			}
			return
		}
	}

	switch marker {
	case '?':
		switch final {
		case 'h', 'l':
			for i := 0; i < params.Len(); i++ {
				t.setMode(true, params.Get(i, 0), final == 'h')
			}
		case 'n':
			if params.Get(0, 0) == 6 {
				t.reportCursorPosition()
			}
		case 'u':
			t.reportKeyboardFlags()
		}
		return
	case '>':
		switch final {
		case 'c':
			t.response.Write([]byte("\x1b[>1;10;0c"))
		case 'u': // push Kitty keyboard enhancement flags
			t.pushKeyboardFlags(params.Get(0, 0))
		}
		return
	case '<':
		if final == 'u' { // pop Kitty keyboard enhancement flags
			t.popKeyboardFlags(params.Get(0, 1))
		}
		return
	case '=':
		if final == 'u' { // set Kitty keyboard enhancement flags
			t.setKeyboardFlags(params.Get(0, 0), params.Get(1, 1))
		}
		return
	}

	switch final {
	case 'A':
		g.CursorUp(int(n(1)))
	case 'B':
		g.CursorDown(int(n(1)))
	case 'C':
		g.CursorForward(int(n(1)))
	case 'D':
		g.CursorBack(int(n(1)))
	case 'E':
		g.CursorNextLine(int(n(1)))
	case 'F':
		g.CursorPrevLine(int(n(1)))
	case 'G', '`':
		g.CursorColumn(int(n(1)) - 1)
	case 'd':
		g.CursorRowAbs(int(n(1)) - 1)
	case 'H', 'f':
		g.CursorPosition(int(n(1))-1, int(params.Get(1, 1))-1)
	case 'a':
		g.CursorForward(int(n(1)))
	case 'e':
		g.CursorDown(int(n(1)))
	case 'I':
		g.Tab(int(n(1)))
	case 'Z':
		g.BackTab(int(n(1)))
	case 'J':
		g.EraseDisplay(eraseModeFromParam(params.Get(0, 0)))
		if params.Get(0, 0) == 3 {
			t.scrollback.Clear()
		}
	case 'K':
		g.EraseLine(eraseModeFromParam(params.Get(0, 0)))
	case 'X':
		g.EraseChars(int(n(1)))
	case 'P':
		g.DeleteChars(int(n(1)))
	case '@':
		g.InsertChars(int(n(1)))
	case 'L':
		g.InsertLines(int(n(1)))
	case 'M':
		g.DeleteLines(int(n(1)))
	case 'S':
		g.ScrollUp(int(n(1)))
	case 'T':
		g.ScrollDown(int(n(1)))
	case 'r':
		if params.Len() == 0 {
			g.SetScrollRegion(0, g.Rows())
		} else {
			g.SetScrollRegion(int(params.Get(0, 1))-1, int(params.Get(1, int32(g.Rows()))))
		}
	case 's':
		if g.Modes.LeftRightMargin && params.Len() > 0 {
			g.SetLeftRightMargin(int(params.Get(0, 1))-1, int(params.Get(1, int32(g.Cols()))))
		} else {
			g.SaveCursor()
		}
	case 'u':
		g.RestoreCursor()
	case 'm':
		t.applySGR(params)
	case 'h', 'l':
		for i := 0; i < params.Len(); i++ {
			t.setMode(false, params.Get(i, 0), final == 'h')
		}
	case 'n':
		switch params.Get(0, 0) {
		case 5:
			t.response.Write([]byte("\x1b[0n"))
		case 6:
			t.reportCursorPosition()
		}
	case 'c':
		t.response.Write([]byte("\x1b[?1;2c"))
	case 'g':
		switch params.Get(0, 0) {
		case 0:
			g.ClearTabStop(g.Cursor.Col)
		case 3:
			g.ClearAllTabStops()
		}
	case 't':
		switch params.Get(0, 0) {
		case 22:
			t.titleStack = append(t.titleStack, t.title)
			t.titleP.PushTitle()
		case 23:
			if n := len(t.titleStack); n > 0 {
				t.title = t.titleStack[n-1]
				t.titleStack = t.titleStack[:n-1]
				t.titleP.SetTitle(t.title)
			}
			t.titleP.PopTitle()
		}
	}
}

func (t *Terminal) reportCursorPosition() {
	g := t.grid()
	t.response.Write([]byte(fmt.Sprintf("\x1b[%d;%dR", g.Cursor.Row+1, g.Cursor.Col+1)))
}

func (t *Terminal) setCursorStyle(p int32) {
	g := t.grid()
	switch p {
	case 0, 1:
		g.Cursor.Style = grid.CursorBlinkingBlock
	case 2:
		g.Cursor.Style = grid.CursorSteadyBlock
	case 3:
		g.Cursor.Style = grid.CursorBlinkingUnderline
	case 4:
		g.Cursor.Style = grid.CursorSteadyUnderline
	case 5:
		g.Cursor.Style = grid.CursorBlinkingBar
	case 6:
		g.Cursor.Style = grid.CursorSteadyBar
	}
}

func eraseModeFromParam(p int32) grid.EraseMode {
	switch p {
	case 1:
		return grid.EraseAbove
	case 2:
		return grid.EraseAll
	case 3:
		return grid.EraseScrollback
	default:
		return grid.EraseBelow
	}
}

// dispatchRectCSI handles the DECERA/DECFRA/DECCARA/DECCRA/DECSERA family,
// all of which use the '$' intermediate (spec §6 "CSI edit").
func (t *Terminal) dispatchRectCSI(params *parser.Params, final byte) {
	g := t.grid()
	switch final {
	case 'z': // DECERA
		top, left, bottom, right := rectParams(params, 0)
		g.EraseRect(top, left, bottom, right)
	case '{': // DECSERA
		top, left, bottom, right := rectParams(params, 0)
		g.SelectiveEraseRect(top, left, bottom, right)
	case 'x': // DECFRA
		ch := rune(params.Get(0, ' '))
		top, left, bottom, right := rectParams(params, 1)
		g.FillRect(ch, top, left, bottom, right)
	case 'r': // DECCARA
		top, left, bottom, right := rectParams(params, 0)
		var attrs []grid.SGRAttrChange
		for i := 4; i < params.Len(); i++ {
			if a, ok := sgrAttrChangeFromParam(params.Get(i, 0)); ok {
				attrs = append(attrs, a)
			}
		}
		g.ChangeRectAttrs(attrs, top, left, bottom, right)
	case 'v': // DECCRA
		srcTop, srcLeft, srcBottom, srcRight := rectParams(params, 0)
		dstTop := int(params.Get(5, 1)) - 1
		dstLeft := int(params.Get(6, 1)) - 1
		g.CopyRect(g, srcTop, srcLeft, srcBottom, srcRight, dstTop, dstLeft)
	}
}

func rectParams(params *parser.Params, offset int) (top, left, bottom, right int) {
	top = int(params.Get(offset, 1)) - 1
	left = int(params.Get(offset+1, 1)) - 1
	bottom = int(params.Get(offset+2, 1)) - 1
	right = int(params.Get(offset+3, 1)) - 1
	return
}

func sgrAttrChangeFromParam(p int32) (grid.SGRAttrChange, bool) {
	switch p {
	case 0:
		return grid.AttrReset, true
	case 1:
		return grid.AttrBold, true
	case 4:
		return grid.AttrUnderline, true
	case 5:
		return grid.AttrBlink, true
	case 7:
		return grid.AttrReverse, true
	case 8:
		return grid.AttrConceal, true
	}
	return 0, false
}
