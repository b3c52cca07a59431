package term

import (
	"bytes"
	"strings"
	"testing"
)

func TestFeedPrintsPlainText(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Feed([]byte("hi"))

	rows := term.VisibleRows()
	if !strings.HasPrefix(rows[0], "hi") {
		t.Fatalf("expected row 0 to start with %q, got %q", "hi", rows[0])
	}
	cur := term.Cursor()
	if cur.Row != 0 || cur.Col != 2 {
		t.Errorf("expected cursor at (0,2), got (%d,%d)", cur.Row, cur.Col)
	}
}

func TestFeedLineFeedAndCarriageReturn(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Feed([]byte("ab\r\ncd"))

	rows := term.VisibleRows()
	if !strings.HasPrefix(rows[0], "ab") {
		t.Fatalf("expected row 0 %q, got %q", "ab", rows[0])
	}
	if !strings.HasPrefix(rows[1], "cd") {
		t.Fatalf("expected row 1 %q, got %q", "cd", rows[1])
	}
}

func TestCSICursorPosition(t *testing.T) {
	term := New(WithSize(10, 10))
	term.Feed([]byte("\x1b[5;3H"))

	cur := term.Cursor()
	if cur.Row != 4 || cur.Col != 2 {
		t.Errorf("expected cursor at (4,2) after CUP 5;3, got (%d,%d)", cur.Row, cur.Col)
	}
}

func TestCSIEraseDisplay(t *testing.T) {
	term := New(WithSize(3, 5))
	term.Feed([]byte("abcde\x1b[1;1H\x1b[2J"))

	for i, row := range term.VisibleRows() {
		if strings.TrimRight(row, " ") != "" {
			t.Errorf("expected row %d blank after ED 2, got %q", i, row)
		}
	}
}

func TestCSISGRSetsCellAttributes(t *testing.T) {
	term := New(WithSize(3, 5))
	term.Feed([]byte("\x1b[1mX"))

	snap := term.Snapshot(SnapshotDetailFull)
	cell := snap.Lines[0].Cells[0]
	if !cell.Attributes.Bold {
		t.Error("expected bold attribute on cell written after SGR 1")
	}
	if cell.Char != "X" {
		t.Errorf("expected char X, got %q", cell.Char)
	}
}

func TestCSIDeviceStatusReportWritesResponse(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithSize(10, 10))
	term.SetResponseProvider(&buf)
	term.Feed([]byte("\x1b[6n"))

	if got := buf.String(); got != "\x1b[1;1R" {
		t.Errorf("expected CPR \\x1b[1;1R, got %q", got)
	}
}

func TestOSCSetTitle(t *testing.T) {
	term := New(WithSize(10, 10))
	term.Feed([]byte("\x1b]0;my title\x07"))

	if term.title != "my title" {
		t.Errorf("expected title %q, got %q", "my title", term.title)
	}
}

func TestOSCHyperlinkStampsTemplateAndCell(t *testing.T) {
	term := New(WithSize(3, 10))
	term.Feed([]byte("\x1b]8;id=abc;http://example.com\x1b\\link\x1b]8;;\x1b\\"))

	snap := term.Snapshot(SnapshotDetailFull)
	cell := snap.Lines[0].Cells[0]
	if cell.Hyperlink == nil || cell.Hyperlink.URI != "http://example.com" {
		t.Fatalf("expected hyperlink on first printed cell, got %+v", cell.Hyperlink)
	}
	last := snap.Lines[0].Cells[4]
	if last.Hyperlink != nil {
		t.Errorf("expected no hyperlink after OSC 8 reset, got %+v", last.Hyperlink)
	}
}

func TestOSCClipboardWriteAndQuery(t *testing.T) {
	term := New(WithSize(3, 10))
	cb := &fakeClipboard{}
	term.clipboard = cb
	term.Feed([]byte("\x1b]52;c;aGVsbG8=\x1b\\"))
	if got := cb.data["c"]; got != "hello" {
		t.Errorf("expected clipboard write %q, got %q", "hello", got)
	}

	var buf bytes.Buffer
	term.SetResponseProvider(&buf)
	term.Feed([]byte("\x1b]52;c;?\x1b\\"))
	if !strings.Contains(buf.String(), "aGVsbG8=") {
		t.Errorf("expected base64 clipboard reply, got %q", buf.String())
	}
}

type fakeClipboard struct {
	data map[string]string
}

func (c *fakeClipboard) Read(sel byte) string {
	if c.data == nil {
		return ""
	}
	return c.data[string(sel)]
}

func (c *fakeClipboard) Write(sel byte, data []byte) {
	if c.data == nil {
		c.data = make(map[string]string)
	}
	c.data[string(sel)] = string(data)
}

func TestDCSDECRQSSRepliesToScrollRegion(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithSize(10, 10))
	term.SetResponseProvider(&buf)
	term.Feed([]byte("\x1bP$qr\x1b\\"))

	if got := buf.String(); got != "\x1bP1$r1;10r\x1b\\" {
		t.Errorf("expected DECRQSS scroll-region reply, got %q", got)
	}
}

func TestDCSUnknownRequestIsInvalid(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithSize(10, 10))
	term.SetResponseProvider(&buf)
	term.Feed([]byte("\x1bP$q\"p\x1b\\"))

	if got := buf.String(); got != "\x1bP0$r\"p\x1b\\" {
		t.Errorf("expected request-invalid reply, got %q", got)
	}
}

func TestRISResetsModesAndTitle(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Feed([]byte("\x1b]0;custom\x07\x1b[1m"))
	term.Feed([]byte("\x1bc"))

	if term.title != "" {
		t.Errorf("expected title cleared after RIS, got %q", term.title)
	}
	if term.grid().Template.Cell.Flags != 0 {
		t.Errorf("expected template attributes cleared after RIS")
	}
}

func TestAlternateScreenModeSwitchesActiveGrid(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Feed([]byte("main"))
	term.Feed([]byte("\x1b[?1049h"))
	term.Feed([]byte("alt"))

	altRows := term.VisibleRows()
	if !strings.HasPrefix(altRows[0], "alt") {
		t.Fatalf("expected alternate screen content, got %q", altRows[0])
	}

	term.Feed([]byte("\x1b[?1049l"))
	mainRows := term.VisibleRows()
	if !strings.HasPrefix(mainRows[0], "main") {
		t.Fatalf("expected restored primary screen content, got %q", mainRows[0])
	}
}

func TestScrollbackAccumulatesOnLineFeed(t *testing.T) {
	term := New(WithSize(2, 5))
	term.Feed([]byte("first\r\nsecond\r\nthird"))

	if term.ScrollbackLen() == 0 {
		t.Fatal("expected scrolled-off lines to land in scrollback")
	}
	if term.ScrollbackLine(0) != "first" {
		t.Errorf("expected oldest scrollback line %q, got %q", "first", term.ScrollbackLine(0))
	}
}

func TestSearchPlainSubstring(t *testing.T) {
	term := New(WithSize(2, 10))
	term.Feed([]byte("needle here\r\nnothing\r\nanother needle"))

	matches := term.Search("needle", SearchOptions{})
	if len(matches) == 0 {
		t.Fatal("expected at least one match for \"needle\"")
	}
}

func TestApplyConfigResizesGridAndNotifiesObservers(t *testing.T) {
	term := New(WithSize(5, 10))
	var got ConfigChange
	term.OnConfigChange(func(c ConfigChange) { got = c })

	term.ApplyConfig(Config{Rows: 8, Cols: 20, Sixel: true, Kitty: true})

	rows, cols := term.Dimensions()
	if rows != 8 || cols != 20 {
		t.Errorf("expected resized to 8x20, got %dx%d", rows, cols)
	}
	if got.After.Rows != 8 || got.After.Cols != 20 {
		t.Errorf("expected observer notified with new size, got %+v", got.After)
	}
}

func TestLineDrawingCharsetSubstitution(t *testing.T) {
	term := New(WithSize(3, 10))
	term.Feed([]byte("\x1b(0q\x1b(B"))

	rows := term.VisibleRows()
	if !strings.HasPrefix(rows[0], "─") {
		t.Errorf("expected DEC line-drawing 'q' to render as '─', got %q", rows[0])
	}
}

func TestKittyKeyboardPushSetPopFlags(t *testing.T) {
	term := New(WithSize(5, 10))

	term.Feed([]byte("\x1b[>5u")) // push disambiguate|report-alternate-keys
	if got := term.KeyboardFlags(); got != 5 {
		t.Fatalf("expected pushed flags 5, got %d", got)
	}

	term.Feed([]byte("\x1b[=2;2u")) // OR in report-events
	if got := term.KeyboardFlags(); got != 7 {
		t.Fatalf("expected flags 5|2=7 after OR-set, got %d", got)
	}

	term.Feed([]byte("\x1b[=1;3u")) // clear flag 1 (disambiguate)
	if got := term.KeyboardFlags(); got != 6 {
		t.Fatalf("expected flags 7&^1=6 after clear-set, got %d", got)
	}

	term.Feed([]byte("\x1b[>9u")) // push another entry
	if got := term.KeyboardFlags(); got != 9 {
		t.Fatalf("expected top-of-stack flags 9 after second push, got %d", got)
	}

	term.Feed([]byte("\x1b[<u")) // pop one (default n=1)
	if got := term.KeyboardFlags(); got != 6 {
		t.Fatalf("expected flags 6 after popping back to the first entry, got %d", got)
	}
}

func TestKittyKeyboardQueryRepliesWithActiveFlags(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithSize(5, 10))
	term.SetResponseProvider(&buf)

	term.Feed([]byte("\x1b[?u"))
	if got := buf.String(); got != "\x1b[?0u" {
		t.Errorf("expected query reply \\x1b[?0u with no flags pushed, got %q", got)
	}

	buf.Reset()
	term.Feed([]byte("\x1b[>1u\x1b[?u"))
	if got := buf.String(); got != "\x1b[?1u" {
		t.Errorf("expected query reply \\x1b[?1u after push, got %q", got)
	}
}

func TestKittyKeyboardPopNeverDispatchesRestoreCursor(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Feed([]byte("\x1b[10;5H")) // move cursor somewhere identifiable
	before := term.Cursor()

	term.Feed([]byte("\x1b[>1u")) // push so the stack is non-empty
	term.Feed([]byte("\x1b[<u"))  // CSI < u: pop, must NOT restore the cursor

	after := term.Cursor()
	if after != before {
		t.Errorf("expected CSI < u to leave the cursor untouched, got %+v (was %+v)", after, before)
	}
}

func TestDECPAMDECPNMToggleApplicationKeypad(t *testing.T) {
	term := New(WithSize(5, 10))

	term.Feed([]byte("\x1b="))
	if !term.grid().Modes.ApplicationKeypad {
		t.Error("expected ESC = (DECPAM) to set ApplicationKeypad")
	}

	term.Feed([]byte("\x1b>"))
	if term.grid().Modes.ApplicationKeypad {
		t.Error("expected ESC > (DECPNM) to clear ApplicationKeypad")
	}
}
