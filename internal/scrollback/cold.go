package scrollback

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// coldBlock is a zstd-compressed block of lines, the oldest scrollback tier.
// When a spill directory is configured the compressed payload lives on disk
// (path non-empty, inMemory nil); otherwise it stays resident (inMemory set,
// path empty). Either way lineCount is always known without touching the
// payload, so Len()/promotion bookkeeping never needs to decompress.
type coldBlock struct {
	lineCount int
	path      string
	inMemory  []byte
}

type coldTier struct {
	spillDir string
	blocks   []*coldBlock
	count    int
	nextFile int
}

func newColdTier(spillDir string) *coldTier {
	return &coldTier{spillDir: spillDir}
}

func (c *coldTier) lineCount() int { return c.count }

func (c *coldTier) appendBlock(lines []Line) {
	payload := warmBlockPayload{LineCount: len(lines)}
	for _, l := range lines {
		payload.Wrapped = append(payload.Wrapped, l.Wrapped)
		recs := make([]cellRecord, len(l.Cells))
		for i, cell := range l.Cells {
			recs[i] = toCellRecord(cell)
		}
		payload.Records = append(payload.Records, recs)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(payload); err != nil {
		c.blocks = append(c.blocks, &coldBlock{lineCount: len(lines)})
		c.count += len(lines)
		return
	}

	enc, err := zstd.NewWriter(nil)
	var compressed []byte
	if err == nil {
		compressed = enc.EncodeAll(raw.Bytes(), nil)
		enc.Close()
	} else {
		compressed = raw.Bytes()
	}

	b := &coldBlock{lineCount: len(lines)}
	if c.spillDir != "" {
		name := filepath.Join(c.spillDir, fmt.Sprintf("cold-%08d.zst", c.nextFile))
		c.nextFile++
		if err := os.MkdirAll(c.spillDir, 0o755); err == nil {
			if err := os.WriteFile(name, compressed, 0o644); err == nil {
				b.path = name
			}
		}
	}
	if b.path == "" {
		b.inMemory = compressed
	}

	c.blocks = append(c.blocks, b)
	c.count += len(lines)
}

func (c *coldTier) readBlock(b *coldBlock) []byte {
	if b.inMemory != nil {
		return b.inMemory
	}
	if b.path != "" {
		data, err := os.ReadFile(b.path)
		if err == nil {
			return data
		}
	}
	return nil
}

func (c *coldTier) line(i int) *Line {
	for _, b := range c.blocks {
		if i < b.lineCount {
			lines := decompressColdBlock(c, b)
			if i < len(lines) {
				return &lines[i]
			}
			return nil
		}
		i -= b.lineCount
	}
	return nil
}

func decompressColdBlock(c *coldTier, b *coldBlock) []Line {
	compressed := c.readBlock(b)
	if compressed == nil {
		return make([]Line, b.lineCount)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return make([]Line, b.lineCount)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return make([]Line, b.lineCount)
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

// evictFrontBlock drops the oldest cold block (and its spilled file, if
// any) once the cold tier exceeds ColdLimit. Returns the number of lines
// dropped.
func (c *coldTier) evictFrontBlock() int {
	if len(c.blocks) == 0 {
		return 0
	}
	b := c.blocks[0]
	c.blocks = c.blocks[1:]
	c.count -= b.lineCount
	if b.path != "" {
		os.Remove(b.path)
	}
	return b.lineCount
}
