// Package scrollback implements the three-tier (hot/warm/cold) scrollback
// history described in spec §5: a raw in-memory deque of recent lines, a
// block-compressed warm tier for older lines still worth keeping in RAM,
// and a zstd-compressed, optionally disk-spilled cold tier for the oldest
// retained history. Store satisfies grid.ScrollbackSink so a Grid can push
// scrolled-off rows directly into it.
package scrollback

import (
	"sync"

	"vtcore/internal/grid"
)

// Line is one retained scrollback row: its cells plus whether it continues
// onto the logical line that followed it (mirrors grid.Row.Wrapped).
type Line struct {
	Cells   []grid.Cell
	Wrapped bool
}

func cloneCells(cells []grid.Cell) []grid.Cell {
	cp := make([]grid.Cell, len(cells))
	copy(cp, cells)
	return cp
}

// Config controls tier thresholds. Zero values fall back to spec defaults.
type Config struct {
	HotLimit   int   // max raw lines kept in the hot tier
	WarmLimit  int   // max lines kept in the warm (block-compressed) tier
	ColdLimit  int   // max lines kept in the cold tier before the oldest are evicted
	BlockSize  int   // lines per warm/cold compressed block
	MemBudget  int64 // stored only; promotion and eviction follow the line-count limits
	SpillDir   string
}

const (
	defaultHotLimit  = 2000
	defaultWarmLimit = 50000
	defaultColdLimit = 1000000
	defaultBlockSize = 256
)

func (c Config) normalized() Config {
	if c.HotLimit <= 0 {
		c.HotLimit = defaultHotLimit
	}
	if c.WarmLimit <= 0 {
		c.WarmLimit = defaultWarmLimit
	}
	if c.ColdLimit <= 0 {
		c.ColdLimit = defaultColdLimit
	}
	if c.BlockSize <= 0 {
		c.BlockSize = defaultBlockSize
	}
	if c.BlockSize > c.HotLimit {
		c.BlockSize = c.HotLimit
	}
	return c
}

// Store holds the full scrollback history for one Grid. Lines are indexed
// 0 (oldest retained) .. Len()-1 (most recently scrolled off), spanning all
// three tiers transparently.
type Store struct {
	mu  sync.Mutex
	cfg Config

	cold *coldTier
	warm *warmTier
	hot  []Line // ring-ish slice; index 0 is the oldest hot line

	index *trigramIndex

	// evictedCount counts lines dropped from the front of cold once ColdLimit
	// is exceeded; it offsets index math so Line()/search results stay
	// internally consistent even though the very oldest history is gone.
	evictedCount int
}

// New creates a Store with the given tier configuration.
func New(cfg Config) *Store {
	cfg = cfg.normalized()
	return &Store{
		cfg:   cfg,
		cold:  newColdTier(cfg.SpillDir),
		warm:  newWarmTier(),
		index: newTrigramIndex(),
	}
}

// Push implements grid.ScrollbackSink: appends a newly scrolled-off line to
// the hot tier, then promotes/evicts according to the tier thresholds.
func (s *Store) Push(cells []grid.Cell, wrapped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := Line{Cells: cloneCells(cells), Wrapped: wrapped}
	s.hot = append(s.hot, line)
	s.index.add(s.totalLenLocked()-1, lineText(line.Cells))

	s.promoteLocked()
}

// Len returns the total number of retained lines across all tiers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLenLocked()
}

func (s *Store) totalLenLocked() int {
	return s.evictedCount + s.cold.lineCount() + s.warm.lineCount() + len(s.hot)
}

// Line returns the cells at absolute index i (0 = oldest retained), or nil
// if i is out of range or the line has been evicted from the cold tier.
func (s *Store) Line(i int) []grid.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineLocked(i)
}

func (s *Store) lineLocked(i int) []grid.Cell {
	i -= s.evictedCount
	if i < 0 {
		return nil // evicted
	}
	coldLen := s.cold.lineCount()
	if i < coldLen {
		l := s.cold.line(i)
		if l == nil {
			return nil
		}
		return l.Cells
	}
	i -= coldLen
	warmLen := s.warm.lineCount()
	if i < warmLen {
		l := s.warm.line(i)
		if l == nil {
			return nil
		}
		return l.Cells
	}
	i -= warmLen
	if i < 0 || i >= len(s.hot) {
		return nil
	}
	return s.hot[i].Cells
}

// Wrapped reports whether the line at absolute index i continues onto the
// line that followed it.
func (s *Store) Wrapped(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i -= s.evictedCount
	coldLen := s.cold.lineCount()
	if i < coldLen {
		if l := s.cold.line(i); l != nil {
			return l.Wrapped
		}
		return false
	}
	i -= coldLen
	warmLen := s.warm.lineCount()
	if i < warmLen {
		if l := s.warm.line(i); l != nil {
			return l.Wrapped
		}
		return false
	}
	i -= warmLen
	if i >= 0 && i < len(s.hot) {
		return s.hot[i].Wrapped
	}
	return false
}

// Clear discards all retained history.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hot = nil
	s.warm = newWarmTier()
	s.cold = newColdTier(s.cfg.SpillDir)
	s.index = newTrigramIndex()
	s.evictedCount = 0
}

// promoteLocked moves lines hot->warm->cold once a tier exceeds its limit,
// and evicts from the front of cold once ColdLimit is exceeded. Called with
// s.mu held.
func (s *Store) promoteLocked() {
	for len(s.hot) >= s.cfg.BlockSize {
		n := s.cfg.BlockSize
		if n > len(s.hot) {
			n = len(s.hot)
		}
		block := s.hot[:n]
		s.warm.appendBlock(block)
		s.hot = append([]Line(nil), s.hot[n:]...)
	}

	for s.warm.lineCount() > s.cfg.WarmLimit {
		block, ok := s.warm.popFrontBlock(s.cfg.BlockSize)
		if !ok {
			break
		}
		s.cold.appendBlock(block)
	}

	for s.cold.lineCount() > s.cfg.ColdLimit {
		n := s.cold.evictFrontBlock()
		if n == 0 {
			break
		}
		s.evictedCount += n
	}
}

func lineText(cells []grid.Cell) string {
	last := -1
	for i := len(cells) - 1; i >= 0; i-- {
		if !cells[i].Blank() {
			last = i
			break
		}
	}
	if last < 0 {
		return ""
	}
	runes := make([]rune, 0, last+1)
	for i := 0; i <= last; i++ {
		if cells[i].IsWidePlaceholder() {
			continue
		}
		ch := cells[i].Char
		if ch == 0 {
			ch = ' '
		}
		runes = append(runes, ch)
	}
	return string(runes)
}
