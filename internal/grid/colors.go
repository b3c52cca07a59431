package grid

import "image/color"

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// a 216-color cube (16-231), and 24 grayscale steps (232-255).
var DefaultPalette = [256]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},

	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// DefaultForeground and DefaultBackground are the terminal's default colors
// used when a cell has no explicit fg/bg set.
var (
	DefaultForeground = color.RGBA{229, 229, 229, 255}
	DefaultBackground = color.RGBA{0, 0, 0, 255}
	DefaultCursor      = color.RGBA{229, 229, 229, 255}
)

// Named semantic color slots, referenced via NamedColor.
const (
	NamedForeground = 256
	NamedBackground = 257
	NamedCursor     = 258
)

// IndexedColor references a palette slot (0-255). Resolution to RGBA
// happens lazily via Resolve, so palette overrides (OSC 4/104) are picked
// up without rewriting every cell that uses them.
type IndexedColor struct{ Index int }

func (c IndexedColor) RGBA() (r, g, b, a uint32) { return 0, 0, 0, 0xffff }

// NamedColor references a semantic slot (foreground/background/cursor).
type NamedColor struct{ Name int }

func (c NamedColor) RGBA() (r, g, b, a uint32) { return 0, 0, 0, 0xffff }

// Palette resolves indexed and named colors against a mutable 16-slot
// override table (OSC 4/104 "dynamic colors") plus the 256-color default.
type Palette struct {
	overrides [16]*color.RGBA
	fg, bg    *color.RGBA
}

// NewPalette returns a palette with no overrides (uses DefaultPalette/DefaultForeground/DefaultBackground).
func NewPalette() *Palette { return &Palette{} }

// SetOverride replaces one of the first 16 palette slots. index outside
// [0,16) is ignored (256-color and true-color cells never need an override).
func (p *Palette) SetOverride(index int, c color.RGBA) {
	if index < 0 || index >= 16 {
		return
	}
	cc := c
	p.overrides[index] = &cc
}

// ResetOverride removes a previously set override, restoring the default.
func (p *Palette) ResetOverride(index int) {
	if index < 0 || index >= 16 {
		return
	}
	p.overrides[index] = nil
}

// SetForeground/SetBackground override the terminal-wide default fg/bg (OSC 10/11).
func (p *Palette) SetForeground(c color.RGBA) { cc := c; p.fg = &cc }
func (p *Palette) SetBackground(c color.RGBA) { cc := c; p.bg = &cc }
func (p *Palette) ResetForeground()           { p.fg = nil }
func (p *Palette) ResetBackground()           { p.bg = nil }

func (p *Palette) Foreground() color.RGBA {
	if p.fg != nil {
		return *p.fg
	}
	return DefaultForeground
}

func (p *Palette) Background() color.RGBA {
	if p.bg != nil {
		return *p.bg
	}
	return DefaultBackground
}

// Resolve converts a cell-stored color.Color into a concrete RGBA, honoring
// palette overrides. A nil color resolves to the default fg/bg.
func (p *Palette) Resolve(c color.Color, fg bool) color.RGBA {
	if c == nil {
		if fg {
			return p.Foreground()
		}
		return p.Background()
	}

	switch v := c.(type) {
	case color.RGBA:
		return v
	case IndexedColor:
		return p.resolveIndex(v.Index, fg)
	case NamedColor:
		switch v.Name {
		case NamedForeground:
			return p.Foreground()
		case NamedBackground:
			return p.Background()
		case NamedCursor:
			return DefaultCursor
		default:
			if fg {
				return p.Foreground()
			}
			return p.Background()
		}
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
}

func (p *Palette) resolveIndex(index int, fg bool) color.RGBA {
	if index < 0 || index >= 256 {
		if fg {
			return p.Foreground()
		}
		return p.Background()
	}
	if index < 16 && p.overrides[index] != nil {
		return *p.overrides[index]
	}
	return DefaultPalette[index]
}
