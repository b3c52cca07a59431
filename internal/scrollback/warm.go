package scrollback

import (
	"bytes"
	"encoding/gob"

	"github.com/pierrec/lz4/v4"

	"vtcore/internal/grid"
)

// warmBlock is BlockSize lines lz4-compressed together. Compressing in
// blocks (rather than per-line) is what makes the warm tier worth the
// promotion step at all: line-level compression ratios on short terminal
// lines are poor, but a few hundred lines together compress well.
type warmBlock struct {
	lineCount int
	wrapped   []bool
	compressed []byte
}

type warmTier struct {
	blocks []*warmBlock
	count  int
}

func newWarmTier() *warmTier {
	return &warmTier{}
}

func (w *warmTier) lineCount() int { return w.count }

func (w *warmTier) appendBlock(lines []Line) {
	b := compressWarmBlock(lines)
	w.blocks = append(w.blocks, b)
	w.count += b.lineCount
}

// popFrontBlock removes and returns the oldest warm block's lines, whatever
// its size; the blockSize argument is not used.
func (w *warmTier) popFrontBlock(blockSize int) ([]Line, bool) {
	if len(w.blocks) == 0 {
		return nil, false
	}
	b := w.blocks[0]
	lines := decompressWarmBlock(b)
	w.blocks = w.blocks[1:]
	w.count -= b.lineCount
	return lines, true
}

func (w *warmTier) line(i int) *Line {
	for _, b := range w.blocks {
		if i < b.lineCount {
			lines := decompressWarmBlock(b)
			return &lines[i]
		}
		i -= b.lineCount
	}
	return nil
}

// cellRecord is the gob-friendly flattened form of grid.Cell used for both
// warm (lz4) and cold (zstd) tier payloads: colors are resolved to concrete
// RGBA at compression time since image/color.Color is an interface and
// cannot round-trip through gob without a concrete registered type.
type cellRecord struct {
	Char           rune
	FgR, FgG, FgB, FgA uint8
	BgR, BgG, BgB, BgA uint8
	Underline      uint8
	Blink          uint8
	Flags          uint16
}

func toCellRecord(c grid.Cell) cellRecord {
	r := cellRecord{Char: c.Char, Underline: uint8(c.Underline), Blink: uint8(c.Blink), Flags: uint16(c.Flags)}
	if c.Fg != nil {
		fr, fg, fb, fa := c.Fg.RGBA()
		r.FgR, r.FgG, r.FgB, r.FgA = uint8(fr>>8), uint8(fg>>8), uint8(fb>>8), uint8(fa>>8)
	}
	if c.Bg != nil {
		br, bg, bb, ba := c.Bg.RGBA()
		r.BgR, r.BgG, r.BgB, r.BgA = uint8(br>>8), uint8(bg>>8), uint8(bb>>8), uint8(ba>>8)
	}
	return r
}

func fromCellRecord(r cellRecord) grid.Cell {
	return grid.Cell{
		Char:      r.Char,
		Fg:        rgba8(r.FgR, r.FgG, r.FgB, r.FgA),
		Bg:        rgba8(r.BgR, r.BgG, r.BgB, r.BgA),
		Underline: grid.UnderlineStyle(r.Underline),
		Blink:     grid.BlinkStyle(r.Blink),
		Flags:     grid.CellFlags(r.Flags),
	}
}

type rgbaColor struct{ R, G, B, A uint8 }

func (c rgbaColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func rgba8(r, g, b, a uint8) rgbaColor { return rgbaColor{r, g, b, a} }

type warmBlockPayload struct {
	LineCount int
	Wrapped   []bool
	Records   [][]cellRecord
}

func compressWarmBlock(lines []Line) *warmBlock {
	payload := warmBlockPayload{LineCount: len(lines)}
	for _, l := range lines {
		payload.Wrapped = append(payload.Wrapped, l.Wrapped)
		recs := make([]cellRecord, len(l.Cells))
		for i, c := range l.Cells {
			recs[i] = toCellRecord(c)
		}
		payload.Records = append(payload.Records, recs)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(payload); err != nil {
		return &warmBlock{lineCount: len(lines)}
	}

	compressed := make([]byte, lz4.CompressBlockBound(raw.Len()))
	var compressor lz4.Compressor
	n, err := compressor.CompressBlock(raw.Bytes(), compressed)
	if err != nil || n == 0 {
		// incompressible or too small to benefit: keep raw bytes, prefixed
		// with a sentinel length of 0 so decompress knows to skip lz4.
		return &warmBlock{lineCount: len(lines), compressed: append([]byte{0, 0, 0, 0}, raw.Bytes()...)}
	}

	out := make([]byte, 4+n)
	putUint32(out, uint32(raw.Len()))
	copy(out[4:], compressed[:n])
	return &warmBlock{lineCount: len(lines), compressed: out}
}

func decompressWarmBlock(b *warmBlock) []Line {
	if len(b.compressed) < 4 {
		return make([]Line, b.lineCount)
	}
	originalLen := getUint32(b.compressed)
	body := b.compressed[4:]

	var raw []byte
	if originalLen == 0 {
		raw = body
	} else {
		raw = make([]byte, originalLen)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return make([]Line, b.lineCount)
		}
		raw = raw[:n]
	}

	var payload warmBlockPayload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err != nil {
		return make([]Line, b.lineCount)
	}

	lines := make([]Line, payload.LineCount)
	for i := range lines {
		lines[i] = Line{Cells: cellsToGrid(payload.Records[i]), Wrapped: payload.Wrapped[i]}
	}
	return lines
}

func cellsToGrid(recs []cellRecord) []grid.Cell {
	cells := make([]grid.Cell, len(recs))
	for i, r := range recs {
		cells[i] = fromCellRecord(r)
	}
	return cells
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
