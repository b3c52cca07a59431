package term

import (
	"regexp"
	"strings"

	"vtcore/internal/grid"
)

// Dimensions returns the active screen's row/column count.
func (t *Terminal) Dimensions() (rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.grid()
	return g.Rows(), g.Cols()
}

// CursorState reports the active screen's cursor position, visibility, and
// style (spec §6 "cursor()").
type CursorState struct {
	Row, Col int
	Visible  bool
	Style    grid.CursorStyle
}

func (t *Terminal) Cursor() CursorState {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.grid().Cursor
	return CursorState{Row: c.Row, Col: c.Col, Visible: c.Visible, Style: c.Style}
}

// VisibleRows returns the text content of every row currently on screen,
// top to bottom (spec §6 "visible_rows()").
func (t *Terminal) VisibleRows() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.grid()
	rows := make([]string, g.Rows())
	for i := range rows {
		rows[i] = g.LineContent(i)
	}
	return rows
}

// DirtyRegion reports the bounding row range touched since the last
// ClearDirty call (spec §6 "dirty_regions()"), a coarser single-rectangle
// simplification of the per-cell dirty flags Grid itself tracks.
type DirtyRegion struct {
	Top, Bottom int
	Any         bool
}

func (t *Terminal) DirtyRegion() DirtyRegion {
	t.mu.Lock()
	defer t.mu.Unlock()
	top, bottom, any := t.grid().DirtyRect()
	return DirtyRegion{Top: top, Bottom: bottom, Any: any}
}

// ClearDirty resets the active screen's dirty tracking, typically called
// once a renderer has flushed a frame.
func (t *Terminal) ClearDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grid().ClearAllDirty()
}

// ScrollbackLine returns the text of scrollback line i (0 = oldest), or ""
// if i is out of range (spec §6 "scrollback_line(i)").
func (t *Terminal) ScrollbackLine(i int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	cells := t.scrollback.Line(i)
	if cells == nil {
		return ""
	}
	return lineText(cells)
}

// ScrollbackLen returns the number of logical scrollback lines retained
// across all tiers.
func (t *Terminal) ScrollbackLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollback.Len()
}

func lineText(cells []grid.Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.Char == 0 {
			continue
		}
		sb.WriteRune(c.Char)
	}
	return sb.String()
}

// SearchMatch is one scrollback search hit (spec §6 "search(query, options)").
type SearchMatch struct {
	Line int
	Text string
}

// SearchOptions controls scrollback search (plain substring vs. regex).
type SearchOptions struct {
	Regex bool
}

// Search scans the scrollback for pattern, returning one match per hit line.
func (t *Terminal) Search(pattern string, opts SearchOptions) []SearchMatch {
	t.mu.Lock()
	defer t.mu.Unlock()

	var lines []int
	if opts.Regex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil
		}
		lines = t.scrollback.SearchRegex(re, "")
	} else {
		lines = t.scrollback.Search(pattern)
	}

	matches := make([]SearchMatch, 0, len(lines))
	for _, i := range lines {
		matches = append(matches, SearchMatch{Line: i, Text: lineText(t.scrollback.Line(i))})
	}
	return matches
}

// CurrentConfig returns a copy of the Terminal's construction-time
// configuration (spec §6 "current_config()").
func (t *Terminal) CurrentConfig() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// ConfigChange describes what changed in an ApplyConfig call, delivered to
// registered observers.
type ConfigChange struct {
	Before, After Config
}

// OnConfigChange registers an observer invoked after every ApplyConfig call.
func (t *Terminal) OnConfigChange(fn func(ConfigChange)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// ApplyConfig reconfigures a live Terminal (spec §6 "apply_config(c)"):
// currently only size, the Sixel/Kitty feature toggles and AutoResize may
// change after construction; scrollback tier limits are fixed at New() time.
func (t *Terminal) ApplyConfig(c Config) {
	t.mu.Lock()
	before := t.cfg
	if c.Rows > 0 && c.Cols > 0 {
		t.primary.Resize(c.Rows, c.Cols)
		t.alternate.Resize(c.Rows, c.Cols)
		t.cfg.Rows, t.cfg.Cols = c.Rows, c.Cols
	}
	t.cfg.Sixel = c.Sixel
	t.cfg.Kitty = c.Kitty
	t.cfg.AutoResize = c.AutoResize
	after := t.cfg
	observers := append([]func(ConfigChange){}, t.observers...)
	t.mu.Unlock()

	for _, obs := range observers {
		obs(ConfigChange{Before: before, After: after})
	}
}

// SyncUpdateActive reports whether synchronized output (DEC mode 2026) is
// set on the active screen, for renderers that poll between frames.
func (t *Terminal) SyncUpdateActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grid().Modes.SynchronizedOutput
}
