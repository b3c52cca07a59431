package term

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"vtcore/internal/grid"
)

// SnapshotDetail controls how much per-line detail Snapshot includes,
// trading payload size for fidelity (spec §6 "snapshot export", grounded in
// the teacher's snapshot.go).
type SnapshotDetail string

const (
	SnapshotDetailText   SnapshotDetail = "text"
	SnapshotDetailStyled SnapshotDetail = "styled"
	SnapshotDetailFull   SnapshotDetail = "full"
)

// Snapshot is a lossy point-in-time JSON rendering of the active screen,
// distinct from the scrollback's binary Checkpoint format: it captures what
// a renderer needs to draw a frame, not enough to reconstruct grid state.
type Snapshot struct {
	Size   SnapshotSize    `json:"size"`
	Cursor SnapshotCursor  `json:"cursor"`
	Lines  []SnapshotLine  `json:"lines"`
	Images []SnapshotImage `json:"images,omitempty"`
}

type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

type SnapshotSegment struct {
	Text       string        `json:"text"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
}

type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
	Wide       bool          `json:"wide,omitempty"`
	WideSpacer bool          `json:"wide_spacer,omitempty"`
}

type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Overline      bool `json:"overline,omitempty"`
}

type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// SnapshotImage is a placement's metadata without pixel data.
type SnapshotImage struct {
	ID          uint32 `json:"id"`
	PlacementID uint32 `json:"placement_id"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	PixelWidth  uint32 `json:"pixel_width"`
	PixelHeight uint32 `json:"pixel_height"`
	ZIndex      int32  `json:"z_index"`
}

// ImageData is the full pixel payload for one registered image.
type ImageData struct {
	ID     uint32 `json:"id"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Format string `json:"format"`
	Data   string `json:"data"`
}

// GetImageData returns the base64-encoded RGBA payload for image id, or nil
// if no such image is registered.
func (t *Terminal) GetImageData(id uint32) *ImageData {
	t.mu.Lock()
	defer t.mu.Unlock()
	img, ok := t.images.get(id)
	if !ok {
		return nil
	}
	return &ImageData{
		ID: id, Width: img.Width, Height: img.Height,
		Format: "rgba",
		Data:   base64.StdEncoding.EncodeToString(img.RGBA),
	}
}

// Snapshot renders the active screen at the requested detail level.
func (t *Terminal) Snapshot(detail SnapshotDetail) *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	g := t.grid()
	snap := &Snapshot{
		Size: SnapshotSize{Rows: g.Rows(), Cols: g.Cols()},
		Cursor: SnapshotCursor{
			Row: g.Cursor.Row, Col: g.Cursor.Col, Visible: g.Cursor.Visible,
			Style: cursorStyleToString(g.Cursor.Style),
		},
		Lines: make([]SnapshotLine, g.Rows()),
	}
	for row := 0; row < g.Rows(); row++ {
		snap.Lines[row] = t.snapshotLine(row, detail)
	}
	snap.Images = t.snapshotImages()
	return snap
}

func (t *Terminal) snapshotImages() []SnapshotImage {
	g := t.grid()
	var out []SnapshotImage
	seen := make(map[uint32]bool)
	for row := 0; row < g.Rows(); row++ {
		gr := g.Row(row)
		if gr == nil {
			continue
		}
		for col, c := range gr.Cells() {
			if c.Image == nil {
				continue
			}
			key := c.Image.PlacementID<<16 | c.Image.ImageID
			if seen[key] {
				continue
			}
			seen[key] = true
			img, ok := t.images.get(c.Image.ImageID)
			if !ok {
				continue
			}
			out = append(out, SnapshotImage{
				ID: c.Image.ImageID, PlacementID: c.Image.PlacementID,
				Row: row, Col: col,
				PixelWidth: img.Width, PixelHeight: img.Height,
				ZIndex: c.Image.ZIndex,
			})
		}
	}
	return out
}

func (t *Terminal) snapshotLine(row int, detail SnapshotDetail) SnapshotLine {
	g := t.grid()
	line := SnapshotLine{Text: g.LineContent(row)}
	switch detail {
	case SnapshotDetailStyled:
		line.Segments = t.lineToSegments(row)
	case SnapshotDetailFull:
		line.Cells = t.lineToCells(row)
	}
	return line
}

func (t *Terminal) lineToSegments(row int) []SnapshotSegment {
	g := t.grid()
	var segments []SnapshotSegment
	var current *SnapshotSegment
	var chars []rune

	flush := func() {
		if current != nil && len(chars) > 0 {
			current.Text = string(chars)
			segments = append(segments, *current)
		}
	}

	for col := 0; col < g.Cols(); col++ {
		cell := g.Cell(row, col)
		if cell == nil || cell.IsWidePlaceholder() {
			continue
		}
		fg := t.colorToHex(cell.Fg, true)
		bg := t.colorToHex(cell.Bg, false)
		attrs := cellAttrsToSnapshot(cell)
		link := cellHyperlinkToSnapshot(cell)

		if current == nil || !segmentMatches(current, fg, bg, attrs, link) {
			flush()
			current = &SnapshotSegment{Fg: fg, Bg: bg, Attributes: attrs, Hyperlink: link}
			chars = nil
		}
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		chars = append(chars, ch)
	}
	flush()
	return segments
}

func (t *Terminal) lineToCells(row int) []SnapshotCell {
	g := t.grid()
	cells := make([]SnapshotCell, 0, g.Cols())
	for col := 0; col < g.Cols(); col++ {
		cell := g.Cell(row, col)
		if cell == nil {
			cells = append(cells, SnapshotCell{Char: " "})
			continue
		}
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		cells = append(cells, SnapshotCell{
			Char: string(ch),
			Fg:   t.colorToHex(cell.Fg, true), Bg: t.colorToHex(cell.Bg, false),
			Attributes: cellAttrsToSnapshot(cell),
			Hyperlink:  cellHyperlinkToSnapshot(cell),
			Wide:       cell.IsWide(), WideSpacer: cell.IsWidePlaceholder(),
		})
	}
	return cells
}

func segmentMatches(seg *SnapshotSegment, fg, bg string, attrs SnapshotAttrs, link *SnapshotLink) bool {
	if seg.Fg != fg || seg.Bg != bg || seg.Attributes != attrs {
		return false
	}
	if seg.Hyperlink == nil && link == nil {
		return true
	}
	if seg.Hyperlink == nil || link == nil {
		return false
	}
	return seg.Hyperlink.URI == link.URI && seg.Hyperlink.ID == link.ID
}

func (t *Terminal) colorToHex(c color.Color, fg bool) string {
	if c == nil {
		return ""
	}
	rgba := t.palette.Resolve(c, fg)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func cellAttrsToSnapshot(cell *grid.Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.Flags&grid.FlagBold != 0,
		Dim:           cell.Flags&grid.FlagDim != 0,
		Italic:        cell.Flags&grid.FlagItalic != 0,
		Underline:     cell.Underline != grid.UnderlineNone,
		Blink:         cell.Blink != grid.BlinkNone,
		Reverse:       cell.Flags&grid.FlagReverse != 0,
		Hidden:        cell.Flags&grid.FlagConceal != 0,
		Strikethrough: cell.Flags&grid.FlagStrike != 0,
		Overline:      cell.Flags&grid.FlagOverline != 0,
	}
}

func cellHyperlinkToSnapshot(cell *grid.Cell) *SnapshotLink {
	if cell.Hyperlink == nil {
		return nil
	}
	return &SnapshotLink{ID: cell.Hyperlink.ID, URI: cell.Hyperlink.URI}
}

func cursorStyleToString(style grid.CursorStyle) string {
	switch style {
	case grid.CursorBlinkingBlock, grid.CursorSteadyBlock:
		return "block"
	case grid.CursorBlinkingUnderline, grid.CursorSteadyUnderline:
		return "underline"
	case grid.CursorBlinkingBar, grid.CursorSteadyBar:
		return "bar"
	default:
		return "block"
	}
}
