package term

import "vtcore/internal/grid"

// decodedImage holds resolved RGBA pixels for one Sixel/Kitty-transmitted
// image, referenced from grid.CellImage placements by ID.
type decodedImage struct {
	Width, Height uint32
	RGBA          []byte
}

// imageStore is the Terminal-side image registry (spec supplement: Sixel and
// Kitty graphics both place image *references* on cells; the decoded pixels
// live here, keyed by the protocol's image ID).
type imageStore struct {
	images map[uint32]*decodedImage
	nextID uint32
}

func newImageStore() *imageStore {
	return &imageStore{images: make(map[uint32]*decodedImage)}
}

func (s *imageStore) put(id uint32, img *decodedImage) uint32 {
	if id == 0 {
		s.nextID++
		id = s.nextID
	}
	s.images[id] = img
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

func (s *imageStore) get(id uint32) (*decodedImage, bool) {
	img, ok := s.images[id]
	return img, ok
}

func (s *imageStore) delete(id uint32) {
	delete(s.images, id)
}

// placeImage stamps a grid of CellImage placements starting at the cursor,
// spanning cols x rows cells (computed from the provider's cell pixel size).
func (t *Terminal) placeImage(imageID uint32, img *decodedImage, placementID uint32, zIndex int32) {
	g := t.grid()
	cellW, cellH := t.size.CellSizePixels()
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	cols := int(img.Width) / cellW
	rows := int(img.Height) / cellH
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	startRow, startCol := g.Cursor.Row, g.Cursor.Col
	for r := 0; r < rows; r++ {
		row := startRow + r
		if row >= g.Rows() {
			break
		}
		gr := g.Row(row)
		if gr == nil {
			continue
		}
		cells := gr.Cells()
		for c := 0; c < cols; c++ {
			col := startCol + c
			if col >= len(cells) {
				break
			}
			cells[col].Image = &grid.CellImage{
				PlacementID: placementID,
				ImageID:     imageID,
				U0:          float32(c) / float32(cols),
				V0:          float32(r) / float32(rows),
				U1:          float32(c+1) / float32(cols),
				V1:          float32(r+1) / float32(rows),
				ZIndex:      zIndex,
			}
			cells[col].MarkDirty()
		}
		gr.Dirty = true
	}
}
