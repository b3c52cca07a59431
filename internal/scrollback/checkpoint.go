package scrollback

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// checkpointMagic/Version identify the Checkpoint wire format (spec §5
// "bit-faithful checkpoint serialization"). Restore rejects anything that
// doesn't start with this header instead of attempting to interpret it.
const (
	checkpointMagic   uint32 = 0x56544B31 // "VTK1"
	checkpointVersion uint16 = 1
)

var errBadCheckpoint = errors.New("scrollback: malformed checkpoint")

// Checkpoint serializes the entire retained history (all three tiers, in
// age order) into a single versioned byte stream. The cold/warm tiers are
// already compressed in place, so Checkpoint just concatenates their
// existing payloads rather than recompressing; only the hot tier is
// compressed fresh (as one more warm-style block) at checkpoint time.
func (s *Store) Checkpoint() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	header := make([]byte, 14)
	binary.LittleEndian.PutUint32(header[0:4], checkpointMagic)
	binary.LittleEndian.PutUint16(header[4:6], checkpointVersion)
	binary.LittleEndian.PutUint32(header[6:10], uint32(s.evictedCount))
	binary.LittleEndian.PutUint32(header[10:14], uint32(s.cfg.BlockSize))
	buf.Write(header)

	var coldBlobs [][]byte
	for _, b := range s.cold.blocks {
		coldBlobs = append(coldBlobs, s.cold.readBlock(b))
	}
	var coldCounts []int
	for _, b := range s.cold.blocks {
		coldCounts = append(coldCounts, b.lineCount)
	}
	if err := writeCountedBlocks(&buf, coldBlobs, coldCounts); err != nil {
		return nil, err
	}

	var warmBlobs [][]byte
	var warmCounts []int
	for _, b := range s.warm.blocks {
		warmBlobs = append(warmBlobs, b.compressed)
		warmCounts = append(warmCounts, b.lineCount)
	}
	if err := writeCountedBlocks(&buf, warmBlobs, warmCounts); err != nil {
		return nil, err
	}

	hotBlock := compressWarmBlock(s.hot)
	if err := writeCountedBlocks(&buf, [][]byte{hotBlock.compressed}, []int{hotBlock.lineCount}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeCountedBlocks(buf *bytes.Buffer, blobs [][]byte, counts []int) error {
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(blobs))); err != nil {
		return err
	}
	for i, b := range blobs {
		if err := binary.Write(buf, binary.LittleEndian, uint32(counts[i])); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint32(len(b))); err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func readCountedBlocks(r *bytes.Reader) ([]int, [][]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, nil, errBadCheckpoint
	}
	counts := make([]int, n)
	blobs := make([][]byte, n)
	for i := uint32(0); i < n; i++ {
		var count, length uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, nil, errBadCheckpoint
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, nil, errBadCheckpoint
		}
		blob := make([]byte, length)
		if _, err := r.Read(blob); err != nil && length > 0 {
			return nil, nil, errBadCheckpoint
		}
		counts[i] = int(count)
		blobs[i] = blob
	}
	return counts, blobs, nil
}

// Restore replaces the Store's contents with the history encoded in data.
// Malformed input (bad magic/version, truncated blocks) is rejected with an
// error and leaves the Store untouched rather than panicking or partially
// applying (spec §5 "reject malformed without crashing").
func (s *Store) Restore(data []byte) error {
	if len(data) < 14 {
		return errBadCheckpoint
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	version := binary.LittleEndian.Uint16(data[4:6])
	if magic != checkpointMagic || version != checkpointVersion {
		return errBadCheckpoint
	}
	evicted := int(binary.LittleEndian.Uint32(data[6:10]))
	blockSize := int(binary.LittleEndian.Uint32(data[10:14]))

	r := bytes.NewReader(data[14:])
	coldCounts, coldBlobs, err := readCountedBlocks(r)
	if err != nil {
		return err
	}
	warmCounts, warmBlobs, err := readCountedBlocks(r)
	if err != nil {
		return err
	}
	hotCounts, hotBlobs, err := readCountedBlocks(r)
	if err != nil || len(hotBlobs) != 1 {
		return errBadCheckpoint
	}

	cold := newColdTier(s.cfg.SpillDir)
	for i, blob := range coldBlobs {
		cold.blocks = append(cold.blocks, &coldBlock{lineCount: coldCounts[i], inMemory: blob})
		cold.count += coldCounts[i]
	}

	warm := newWarmTier()
	for i, blob := range warmBlobs {
		warm.blocks = append(warm.blocks, &warmBlock{lineCount: warmCounts[i], compressed: blob})
		warm.count += warmCounts[i]
	}

	hotBlock := &warmBlock{lineCount: hotCounts[0], compressed: hotBlobs[0]}
	hot := decompressWarmBlock(hotBlock)

	idx := newTrigramIndex()
	base := evicted
	rebuild := func(lineAt func(int) *Line, count int) {
		for i := 0; i < count; i++ {
			if l := lineAt(i); l != nil {
				idx.add(base+i, lineText(l.Cells))
			}
		}
		base += count
	}
	rebuild(cold.line, cold.lineCount())
	rebuild(warm.line, warm.lineCount())
	for i, l := range hot {
		idx.add(base+i, lineText(l.Cells))
	}

	if s.cfg.BlockSize <= 0 {
		s.cfg.BlockSize = blockSize
	}
	s.cold = cold
	s.warm = warm
	s.hot = hot
	s.evictedCount = evicted
	s.index = idx
	return nil
}
