package grid

import "image/color"

// UnderlineStyle distinguishes the VT underline sub-styles addressable via
// SGR 4:0..4:5 (colon sub-parameter form).
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// BlinkStyle distinguishes SGR 5 (slow) from SGR 6 (rapid).
type BlinkStyle uint8

const (
	BlinkNone BlinkStyle = iota
	BlinkSlow
	BlinkRapid
)

// CellFlags is a bitmask of boolean cell attributes. Underline/blink have
// more than two states and are stored separately (see Cell.Underline,
// Cell.Blink); flags here are the strictly-boolean SGR attributes plus
// grid-internal bookkeeping bits.
type CellFlags uint16

const (
	FlagBold CellFlags = 1 << iota
	FlagDim
	FlagItalic
	FlagReverse
	FlagConceal
	FlagStrike
	FlagOverline
	FlagWide             // first column of a 2-wide character
	FlagWidePlaceholder  // second column of a 2-wide character
	FlagProtected        // DECSCA protected from DECSED/DECSEL
	FlagDirty            // modified since the last frame was flushed to the renderer
	FlagHasHyperlink
)

// Cell is one grid position: a scalar rune plus SGR attributes. Cell is
// deliberately small and copyable — Grid operations (scroll, erase, resize)
// move/clear cells by value, never by reference, so no cell ever aliases
// two grid positions.
type Cell struct {
	Char           rune
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Underline      UnderlineStyle
	Blink          BlinkStyle
	Flags          CellFlags
	Hyperlink      *Hyperlink
	Image          *CellImage
}

// Hyperlink associates a cell with a clickable URI (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// CellImage is a lightweight reference into an image placement (Sixel/Kitty/
// iTerm2 graphics); the pixel data itself lives outside the grid so that
// Page Pool recycling never has to copy image bytes.
type CellImage struct {
	PlacementID uint32
	ImageID     uint32
	U0, V0      float32
	U1, V1      float32
	ZIndex      int32
}

// Default returns a cleared cell: space character, no attributes, default colors.
func Default() Cell {
	return Cell{Char: ' '}
}

// Reset restores the cell to its default state in place.
func (c *Cell) Reset() {
	*c = Cell{Char: ' '}
}

// ResetPreservingBackground clears character/attributes but keeps Bg, per
// the ED/EL/ECH "writes the default cell with current background only" rule.
func (c *Cell) ResetPreservingBackground(bg color.Color) {
	*c = Cell{Char: ' ', Bg: bg}
}

func (c *Cell) HasFlag(f CellFlags) bool { return c.Flags&f != 0 }
func (c *Cell) SetFlag(f CellFlags)      { c.Flags |= f }
func (c *Cell) ClearFlag(f CellFlags)    { c.Flags &^= f }

func (c *Cell) IsDirty() bool   { return c.HasFlag(FlagDirty) }
func (c *Cell) MarkDirty()      { c.SetFlag(FlagDirty) }
func (c *Cell) ClearDirty()     { c.ClearFlag(FlagDirty) }
func (c *Cell) IsWide() bool        { return c.HasFlag(FlagWide) }
func (c *Cell) IsWidePlaceholder() bool { return c.HasFlag(FlagWidePlaceholder) }
func (c *Cell) IsProtected() bool   { return c.HasFlag(FlagProtected) }

// Blank reports whether the cell holds no visible content: the VT default
// space with no hyperlink/image, regardless of background color. Used by
// LineContent and scrollback line trimming.
func (c *Cell) Blank() bool {
	return c.Char == ' ' && c.Hyperlink == nil && c.Image == nil && !c.IsWide() && !c.IsWidePlaceholder()
}
