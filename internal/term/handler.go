package term

import (
	"vtcore/internal/grid"
	"vtcore/internal/parser"
)

// handlerAdapter implements parser.Handler by delegating into Terminal's
// grid/scrollback/plugin-aware dispatch methods (spec §4.1 "one state
// machine, one handler"). Defined on a distinct named type so these
// callback methods never pollute Terminal's own public API surface.

func (h *handlerAdapter) t() *Terminal { return (*Terminal)(h) }

func (h *handlerAdapter) Print(r rune) {
	h.t().grid().Print(translateCharset(h.t().grid(), r), runeWidth(r))
}

func (h *handlerAdapter) PrintRun(b []byte) {
	g := h.t().grid()
	for _, r := range string(b) {
		g.Print(translateCharset(g, r), runeWidth(r))
	}
}

func (h *handlerAdapter) Execute(b byte) {
	t := h.t()
	g := t.grid()
	switch b {
	case 0x07: // BEL
		t.bell.Ring()
	case 0x08: // BS
		g.CursorBack(1)
	case 0x09: // HT
		g.Tab(1)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		g.LineFeed()
	case 0x0D: // CR
		g.Cursor.Col = 0
		g.Cursor.PendingWrap = false
	case 0x0E: // SO -> invoke G1 into GL
		g.GL = grid.G1
	case 0x0F: // SI -> invoke G0 into GL
		g.GL = grid.G0
	}
}

func (h *handlerAdapter) CsiDispatch(params *parser.Params, marker byte, intermediates []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	h.t().dispatchCSI(params, marker, intermediates, final)
}

func (h *handlerAdapter) EscDispatch(intermediates []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	t := h.t()
	g := t.grid()

	if len(intermediates) == 1 {
		switch intermediates[0] {
		case '(':
			setG(g, grid.G0, final)
			return
		case ')':
			setG(g, grid.G1, final)
			return
		case '*':
			setG(g, grid.G2, final)
			return
		case '+':
			setG(g, grid.G3, final)
			return
		case '#':
			if final == '8' {
				g.DECALN()
			}
			return
		}
	}

	switch final {
	case '=': // DECPAM: application keypad
		g.Modes.ApplicationKeypad = true
	case '>': // DECPNM: numeric keypad
		g.Modes.ApplicationKeypad = false
	case '7':
		g.SaveCursor()
	case '8':
		g.RestoreCursor()
	case 'D':
		g.LineFeed()
	case 'E':
		g.LineFeed()
		g.Cursor.Col = 0
	case 'H':
		g.SetTabStop(g.Cursor.Col)
	case 'M':
		g.ReverseIndex()
	case 'c':
		t.reset()
	}
}

func (h *handlerAdapter) OscDispatch(params [][]byte, bellTerminated bool) {
	h.t().dispatchOSC(params, bellTerminated)
}

func (h *handlerAdapter) Hook(params *parser.Params, marker byte, intermediates []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	h.t().hookDCS(params, marker, intermediates, final)
}

func (h *handlerAdapter) Put(b byte) {
	h.t().putDCS(b)
}

func (h *handlerAdapter) Unhook() {
	h.t().unhookDCS()
}

func (h *handlerAdapter) SosPmApcDispatch(kind byte, data []byte) {
	t := h.t()
	switch kind {
	case 'X':
		t.sos.Receive(data)
	case '^':
		t.pm.Receive(data)
	case '_':
		if len(data) > 0 && data[0] == 'G' {
			t.handleKittyGraphics(data)
			return
		}
		t.apc.Receive(data)
	}
}

func setG(g *grid.Grid, slot grid.CharsetIndex, final byte) {
	switch final {
	case '0':
		g.Charsets[slot] = grid.CharsetLineDrawing
	case 'A':
		g.Charsets[slot] = grid.CharsetUK
	case 'B':
		g.Charsets[slot] = grid.CharsetASCII
	}
}

// lineDrawingTable maps ASCII bytes 0x60-0x7E to the DEC special graphics
// (box-drawing) glyphs, per the classic VT100 G1 charset.
var lineDrawingTable = map[rune]rune{
	'`': '◆', 'a': '▒', 'b': '␉', 'c': '␌', 'd': '␍', 'e': '␊',
	'f': '°', 'g': '±', 'h': '␤', 'i': '␋', 'j': '┘', 'k': '┐',
	'l': '┌', 'm': '└', 'n': '┼', 'o': '⎺', 'p': '⎻', 'q': '─',
	'r': '⎼', 's': '⎽', 't': '├', 'u': '┤', 'v': '┴', 'w': '┬',
	'x': '│', 'y': '≤', 'z': '≥', '{': 'π', '|': '≠', '}': '£', '~': '·',
}

// translateCharset applies the GL-invoked charset's substitution table (the
// DEC special-graphics mapping matters in practice; ASCII/UK are passthrough).
func translateCharset(g *grid.Grid, r rune) rune {
	if g.Charsets[g.GL] == grid.CharsetLineDrawing {
		if mapped, ok := lineDrawingTable[r]; ok {
			return mapped
		}
	}
	return r
}
