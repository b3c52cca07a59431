package term

import "vtcore/internal/grid"

// setMode implements CSI h/l (ANSI modes) and CSI ?h/?l (DEC private modes),
// with on selecting set (h) or reset (l): spec §6's "DEC private modes"
// table plus one ANSI mode, IRM (4). Other ANSI modes, LNM included, are
// ignored.
func (t *Terminal) setMode(private bool, code int32, on bool) {
	g := t.grid()
	m := &g.Modes

	if !private {
		switch code {
		case 4: // IRM insert mode
			m.Insert = on
		}
		return
	}

	switch code {
	case 1: // DECCKM
		m.CursorKeysApplication = on
	case 2: // DECANM (VT52 <-> ANSI)
		m.VT52 = !on
	case 3: // DECCOLM
		m.ColumnMode132 = on
		cols := 80
		if on {
			cols = 132
		}
		g.Resize(g.Rows(), cols)
	case 5: // DECSCNM
		m.ReverseVideo = on
	case 6: // DECOM
		m.Origin = on
	case 7: // DECAWM
		m.AutoWrap = on
	case 8: // DECARM
		m.AutoRepeat = on
	case 25: // DECTCEM
		m.CursorVisible = on
		g.Cursor.Visible = on
	case 69: // DECLRMM
		g.SetMarginsEnabled(on)
	case 1000:
		if on {
			m.MouseTracking = grid.MouseTrackingNormal
		} else {
			m.MouseTracking = grid.MouseTrackingOff
		}
	case 1002:
		if on {
			m.MouseTracking = grid.MouseTrackingButtonEvent
		} else {
			m.MouseTracking = grid.MouseTrackingOff
		}
	case 1003:
		if on {
			m.MouseTracking = grid.MouseTrackingAnyEvent
		} else {
			m.MouseTracking = grid.MouseTrackingOff
		}
	case 1004:
		m.FocusReporting = on
	case 1005:
		if on {
			m.MouseEncoding = grid.MouseEncodingUTF8
		}
	case 1006:
		if on {
			m.MouseEncoding = grid.MouseEncodingSGR
		}
	case 1015:
		if on {
			m.MouseEncoding = grid.MouseEncodingURXVT
		}
	case 1016:
		if on {
			m.MouseEncoding = grid.MouseEncodingSGRPixel
		}
	case 1047:
		t.setAlternateScreen(on, false)
	case 1048:
		if on {
			g.SaveCursor()
		} else {
			g.RestoreCursor()
		}
	case 1049:
		t.setAlternateScreen(on, true)
	case 2004:
		m.BracketedPaste = on
	case 2026:
		m.SynchronizedOutput = on
	}
}

// setAlternateScreen switches the active grid, optionally saving/restoring
// the cursor (mode 1049) around the switch (spec §3 "alternate screen never
// keeps scrollback").
func (t *Terminal) setAlternateScreen(enter, withCursor bool) {
	already := t.active == t.alternate
	if enter == already {
		return
	}
	if enter {
		if withCursor {
			t.primary.SaveCursor()
		}
		t.alternate.EraseDisplay(grid.EraseAll)
		t.active = t.alternate
		t.active.Modes.AlternateScreen = true
	} else {
		t.active = t.primary
		t.active.Modes.AlternateScreen = false
		if withCursor {
			t.primary.RestoreCursor()
		}
	}
}
