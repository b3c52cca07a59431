package grid

import "testing"

type recordingSink struct {
	lines [][]Cell
}

func (s *recordingSink) Push(line []Cell, wrapped bool) {
	cp := make([]Cell, len(line))
	copy(cp, line)
	s.lines = append(s.lines, cp)
}

func TestNewGridDimensions(t *testing.T) {
	g := NewGrid(24, 80, nil)
	if g.Rows() != 24 {
		t.Errorf("expected 24 rows, got %d", g.Rows())
	}
	if g.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", g.Cols())
	}
}

func TestGridCellOutOfBounds(t *testing.T) {
	g := NewGrid(24, 80, nil)
	if g.Cell(-1, 0) != nil {
		t.Error("expected nil for negative row")
	}
	if g.Cell(0, 80) != nil {
		t.Error("expected nil for col >= cols")
	}
}

func TestPrintAdvancesCursorAndSetsPendingWrap(t *testing.T) {
	g := NewGrid(5, 5, nil)
	for i := 0; i < 5; i++ {
		g.Print(rune('A'+i), 1)
	}
	if !g.Cursor.PendingWrap {
		t.Fatal("expected PendingWrap after filling the last column")
	}
	if g.Cursor.Col != 4 {
		t.Errorf("expected cursor clamped at col 4, got %d", g.Cursor.Col)
	}

	g.Print('Z', 1)
	if g.Cursor.Row != 1 {
		t.Errorf("expected wrap to row 1, got row %d", g.Cursor.Row)
	}
	if g.Cell(1, 0).Char != 'Z' {
		t.Errorf("expected 'Z' at (1,0), got %q", g.Cell(1, 0).Char)
	}
	if !g.Row(0).Wrapped {
		t.Error("expected row 0 marked Wrapped")
	}
}

func TestPrintWideCharPlaceholder(t *testing.T) {
	g := NewGrid(5, 5, nil)
	g.Print('中', 2)

	if !g.Cell(0, 0).IsWide() {
		t.Error("expected FlagWide on the lead cell")
	}
	if !g.Cell(0, 1).IsWidePlaceholder() {
		t.Error("expected FlagWidePlaceholder on the trailing cell")
	}
	if g.Cursor.Col != 2 {
		t.Errorf("expected cursor at col 2, got %d", g.Cursor.Col)
	}
}

func TestCursorNeverLandsOnWidePlaceholder(t *testing.T) {
	g := NewGrid(5, 5, nil)
	g.Print('中', 2) // occupies cols 0,1
	g.CursorPosition(0, 1)
	if g.Cursor.Col == 1 {
		t.Error("cursor must not land on the wide placeholder column")
	}
}

func TestScrollUpPushesToScrollbackOnlyFullWidth(t *testing.T) {
	sink := &recordingSink{}
	g := NewGrid(3, 5, sink)
	g.Cell(0, 0).Char = 'X'
	g.ScrollUp(1)

	if len(sink.lines) != 1 {
		t.Fatalf("expected 1 pushed line, got %d", len(sink.lines))
	}
	if sink.lines[0][0].Char != 'X' {
		t.Errorf("expected pushed line to carry 'X', got %q", sink.lines[0][0].Char)
	}
}

func TestScrollUpWithLeftRightMarginDoesNotPushToScrollback(t *testing.T) {
	sink := &recordingSink{}
	g := NewGrid(3, 5, sink)
	g.SetLeftRightMargin(1, 4)
	g.ScrollUp(1)

	if len(sink.lines) != 0 {
		t.Errorf("expected no scrollback push while column margins are active, got %d", len(sink.lines))
	}
}

func TestAlternateScreenNeverPushesToScrollback(t *testing.T) {
	alt := NewGrid(3, 5, nil)
	alt.Cell(0, 0).Char = 'X'
	alt.ScrollUp(1) // must not panic or dereference a nil sink
	if !alt.HasDirty() {
		t.Error("expected scroll to mark rows dirty even with no sink attached")
	}
}

func TestEraseDisplayModes(t *testing.T) {
	g := NewGrid(3, 5, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			g.Cell(r, c).Char = 'X'
		}
	}
	g.CursorPosition(1, 2)
	g.EraseDisplay(EraseBelow)

	if g.Cell(1, 2).Char != ' ' {
		t.Error("expected cell at cursor cleared by EraseBelow")
	}
	if g.Cell(1, 1).Char != 'X' {
		t.Error("expected cell before cursor untouched by EraseBelow")
	}
	if g.Cell(2, 0).Char != ' ' {
		t.Error("expected rows after cursor cleared by EraseBelow")
	}
}

func TestResizePreservesTopLeftContent(t *testing.T) {
	g := NewGrid(5, 5, nil)
	g.Cell(0, 0).Char = 'A'
	g.Cell(4, 4).Char = 'Z'

	g.Resize(3, 3)
	if g.Rows() != 3 || g.Cols() != 3 {
		t.Fatalf("expected 3x3 grid, got %dx%d", g.Rows(), g.Cols())
	}
	if g.Cell(0, 0).Char != 'A' {
		t.Error("expected top-left content preserved across shrink")
	}
}

func TestResizeClearsWideCharSplitAtNewBoundary(t *testing.T) {
	g := NewGrid(5, 5, nil)
	g.Print('a', 1)
	g.Print('中', 2)
	g.CursorPosition(0, 0)

	g.Resize(5, 2)
	if g.Cell(0, 1) != nil && g.Cell(0, 1).IsWide() {
		t.Error("expected wide char at new trailing column cleared, not split")
	}
}

func TestCopyRectHandlesSelfOverlap(t *testing.T) {
	g := NewGrid(3, 5, nil)
	for c := 0; c < 5; c++ {
		g.Cell(0, c).Char = rune('0' + c)
	}
	// Shift row 0 one column right via an overlapping self-copy.
	g.CopyRect(nil, 0, 0, 0, 3, 0, 1)

	want := "01234"
	got := string([]byte{
		byte(g.Cell(0, 0).Char), byte(g.Cell(0, 1).Char), byte(g.Cell(0, 2).Char),
		byte(g.Cell(0, 3).Char), byte(g.Cell(0, 4).Char),
	})
	if got[1:] != want[:4] {
		t.Errorf("expected shifted content %q at cols 1-4, got %q", want[:4], got[1:])
	}
}

func TestLineContentTrimsTrailingBlanksAndSkipsPlaceholder(t *testing.T) {
	g := NewGrid(1, 10, nil)
	g.Print('h', 1)
	g.Print('i', 1)
	g.Print('中', 2)

	got := g.LineContent(0)
	if got != "hi中" {
		t.Errorf("expected %q, got %q", "hi中", got)
	}
}

func TestTabStopsDefaultEveryEightColumns(t *testing.T) {
	g := NewGrid(1, 40, nil)
	if got := g.NextTabStop(0); got != 8 {
		t.Errorf("expected next tab stop at 8, got %d", got)
	}
	g.ClearTabStop(8)
	if got := g.NextTabStop(0); got != 16 {
		t.Errorf("expected next tab stop at 16 after clearing 8, got %d", got)
	}
}

func TestPagePoolGenerationInvalidatesStaleHandle(t *testing.T) {
	pool := NewPagePool(10)
	slot, gen, _ := pool.Alloc()
	h := NewRowHandle(pool, slot, gen)
	if !h.Valid() {
		t.Fatal("expected freshly allocated handle to be valid")
	}
	pool.Free(slot)
	if h.Valid() {
		t.Error("expected handle to go stale after Free bumps the generation")
	}
	if h.Cells() != nil {
		t.Error("expected stale handle to return nil cells")
	}
}
