package term

import (
	"image/color"

	"vtcore/internal/grid"
	"vtcore/internal/parser"
)

// applySGR interprets one CSI `m` dispatch against the active grid's cell
// template (spec §6 SGR list). Sub-params (colon form) select underline
// style and true-color components; the teacher's handler.go switches on one
// pre-parsed enum per code, reimplemented here directly against Params
// since this parser never builds that intermediate enum.
func (t *Terminal) applySGR(params *parser.Params) {
	g := t.grid()
	tmpl := &g.Template.Cell

	if params.Len() == 0 {
		g.Template = grid.DefaultTemplate()
		return
	}

	for i := 0; i < params.Len(); i++ {
		code := params.Get(i, 0)
		switch code {
		case 0:
			g.Template = grid.DefaultTemplate()
			tmpl = &g.Template.Cell
		case 1:
			tmpl.SetFlag(grid.FlagBold)
		case 2:
			tmpl.SetFlag(grid.FlagDim)
		case 3:
			tmpl.SetFlag(grid.FlagItalic)
		case 4:
			tmpl.Underline = underlineFromSub(params, i)
		case 5:
			tmpl.Blink = grid.BlinkSlow
		case 6:
			tmpl.Blink = grid.BlinkRapid
		case 7:
			tmpl.SetFlag(grid.FlagReverse)
		case 8:
			tmpl.SetFlag(grid.FlagConceal)
		case 9:
			tmpl.SetFlag(grid.FlagStrike)
		case 21:
			tmpl.Underline = grid.UnderlineDouble
		case 22:
			tmpl.ClearFlag(grid.FlagBold | grid.FlagDim)
		case 23:
			tmpl.ClearFlag(grid.FlagItalic)
		case 24:
			tmpl.Underline = grid.UnderlineNone
		case 25:
			tmpl.Blink = grid.BlinkNone
		case 27:
			tmpl.ClearFlag(grid.FlagReverse)
		case 28:
			tmpl.ClearFlag(grid.FlagConceal)
		case 29:
			tmpl.ClearFlag(grid.FlagStrike)
		case 53:
			tmpl.SetFlag(grid.FlagOverline)
		case 55:
			tmpl.ClearFlag(grid.FlagOverline)
		case 30, 31, 32, 33, 34, 35, 36, 37:
			tmpl.Fg = grid.IndexedColor{Index: int(code - 30)}
		case 39:
			tmpl.Fg = nil
		case 40, 41, 42, 43, 44, 45, 46, 47:
			tmpl.Bg = grid.IndexedColor{Index: int(code - 40)}
		case 49:
			tmpl.Bg = nil
		case 90, 91, 92, 93, 94, 95, 96, 97:
			tmpl.Fg = grid.IndexedColor{Index: int(code-90) + 8}
		case 100, 101, 102, 103, 104, 105, 106, 107:
			tmpl.Bg = grid.IndexedColor{Index: int(code-100) + 8}
		case 38:
			c, consumed := extendedColor(params, i)
			if c != nil {
				tmpl.Fg = c
			}
			i += consumed
		case 48:
			c, consumed := extendedColor(params, i)
			if c != nil {
				tmpl.Bg = c
			}
			i += consumed
		case 58:
			c, consumed := extendedColor(params, i)
			if c != nil {
				tmpl.UnderlineColor = c
			} else {
				tmpl.UnderlineColor = nil
			}
			i += consumed
		case 59:
			tmpl.UnderlineColor = nil
		}
	}
}

// underlineFromSub resolves SGR 4 with its optional colon sub-parameter
// (4:0 none .. 4:5 dashed); bare `4` (no sub-params) means single underline.
func underlineFromSub(params *parser.Params, i int) grid.UnderlineStyle {
	if params.SubCount(i) == 0 {
		return grid.UnderlineSingle
	}
	switch params.Sub(i, 0) {
	case 0:
		return grid.UnderlineNone
	case 1:
		return grid.UnderlineSingle
	case 2:
		return grid.UnderlineDouble
	case 3:
		return grid.UnderlineCurly
	case 4:
		return grid.UnderlineDotted
	case 5:
		return grid.UnderlineDashed
	default:
		return grid.UnderlineSingle
	}
}

// extendedColor parses the SGR 38/48/58 extended color forms, both the
// semicolon-separated legacy form (38;5;n / 38;2;r;g;b) and the colon
// sub-param form (38:5:n / 38:2::r:g:b, skipping the empty colorspace
// field). Returns the resolved color (nil if malformed/reset) and how many
// additional top-level params the legacy form consumed.
func extendedColor(params *parser.Params, i int) (color.Color, int) {
	if params.SubCount(i) > 0 {
		switch params.Sub(i, 0) {
		case 5:
			if params.SubCount(i) >= 2 {
				return grid.IndexedColor{Index: int(params.Sub(i, 1))}, 0
			}
		case 2:
			vals := subValuesSkippingColorspace(params, i)
			if len(vals) >= 3 {
				return color.RGBA{R: uint8(vals[0]), G: uint8(vals[1]), B: uint8(vals[2]), A: 255}, 0
			}
		}
		return nil, 0
	}

	if i+1 >= params.Len() {
		return nil, 0
	}
	switch params.Get(i+1, -1) {
	case 5:
		if i+2 < params.Len() {
			return grid.IndexedColor{Index: int(params.Get(i+2, 0))}, 2
		}
		return nil, 1
	case 2:
		if i+4 < params.Len() {
			return color.RGBA{
				R: uint8(params.Get(i+2, 0)),
				G: uint8(params.Get(i+3, 0)),
				B: uint8(params.Get(i+4, 0)),
				A: 255,
			}, 4
		}
		return nil, i + 4 - (params.Len() - 1)
	}
	return nil, 1
}

// subValuesSkippingColorspace collects a param's sub-values after the
// colour-type field (the `2`), dropping a leading colorspace-ID field as used
// by `38:2::r:g:b`.
func subValuesSkippingColorspace(params *parser.Params, i int) []int32 {
	n := params.SubCount(i)
	vals := make([]int32, 0, n)
	for j := 1; j < n; j++ {
		vals = append(vals, params.Sub(i, j))
	}
	// `38:2::r:g:b` has 4 sub-values (empty colorspace, r, g, b); `38:2:r:g:b`
	// has 3. Treat a 4-value form as colorspace-prefixed.
	if len(vals) == 4 {
		return vals[1:]
	}
	return vals
}
