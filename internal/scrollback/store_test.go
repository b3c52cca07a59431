package scrollback

import (
	"testing"

	"vtcore/internal/grid"
)

func lineOf(s string) []grid.Cell {
	cells := make([]grid.Cell, len(s))
	for i, r := range s {
		cells[i] = grid.Cell{Char: r}
	}
	return cells
}

func TestPushAndLineRoundTrip(t *testing.T) {
	st := New(Config{HotLimit: 100, WarmLimit: 1000, ColdLimit: 10000, BlockSize: 8})
	st.Push(lineOf("hello"), false)
	st.Push(lineOf("world"), true)

	if st.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", st.Len())
	}
	if got := lineText(st.Line(0)); got != "hello" {
		t.Errorf("expected line 0 %q, got %q", "hello", got)
	}
	if !st.Wrapped(1) {
		t.Error("expected line 1 marked wrapped")
	}
}

func TestConfigClampsBlockSizeToHotLimit(t *testing.T) {
	st := New(Config{HotLimit: 1, BlockSize: 1000000})
	if st.cfg.BlockSize != 1 {
		t.Fatalf("expected BlockSize clamped to HotLimit 1, got %d", st.cfg.BlockSize)
	}

	for i := 0; i < 50; i++ {
		st.Push(lineOf(string(rune('a'+i%26))), false)
	}
	if st.Len() != 50 {
		t.Fatalf("expected all 50 pushed lines retained across tiers, got %d", st.Len())
	}
}

func TestPromotionTriggersAtBlockSizeNotHotLimit(t *testing.T) {
	st := New(Config{HotLimit: 2000, WarmLimit: 50000, ColdLimit: 1000000, BlockSize: 8})
	for i := 0; i < 20; i++ {
		st.Push(lineOf(string(rune('a'+i%26))), false)
	}
	if len(st.hot) >= st.cfg.BlockSize {
		t.Errorf("expected hot tier to stay under BlockSize (%d) once it reaches that size, got %d raw hot lines", st.cfg.BlockSize, len(st.hot))
	}
	if st.Len() != 20 {
		t.Fatalf("expected all 20 pushed lines retained across tiers, got %d", st.Len())
	}
}

func TestPromotionToWarmPreservesContent(t *testing.T) {
	st := New(Config{HotLimit: 4, WarmLimit: 1000, ColdLimit: 10000, BlockSize: 4})
	for i := 0; i < 10; i++ {
		st.Push(lineOf(string(rune('a'+i))), false)
	}
	if st.Len() != 10 {
		t.Fatalf("expected 10 lines retained across tiers, got %d", st.Len())
	}
	for i := 0; i < 10; i++ {
		want := string(rune('a' + i))
		if got := lineText(st.Line(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestPromotionToColdPreservesContent(t *testing.T) {
	st := New(Config{HotLimit: 2, WarmLimit: 4, ColdLimit: 10000, BlockSize: 2})
	for i := 0; i < 20; i++ {
		st.Push(lineOf(string(rune('A'+i))), false)
	}
	for i := 0; i < 20; i++ {
		want := string(rune('A' + i))
		if got := lineText(st.Line(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestColdEvictionDropsOldestLines(t *testing.T) {
	st := New(Config{HotLimit: 1, WarmLimit: 2, ColdLimit: 4, BlockSize: 2})
	for i := 0; i < 20; i++ {
		st.Push(lineOf(string(rune('a'+i%26))), false)
	}
	if st.Line(0) != nil {
		t.Error("expected the oldest lines to have been evicted from the cold tier")
	}
	if st.Len() != 20 {
		t.Errorf("expected Len to still report the logical total 20, got %d", st.Len())
	}
}

func TestSearchFindsSubstringAcrossTiers(t *testing.T) {
	st := New(Config{HotLimit: 2, WarmLimit: 4, ColdLimit: 10000, BlockSize: 2})
	st.Push(lineOf("the quick brown fox"), false)
	st.Push(lineOf("jumps over"), false)
	st.Push(lineOf("the lazy dog"), false)
	st.Push(lineOf("another line"), false)
	st.Push(lineOf("final line with fox again"), false)

	matches := st.Search("fox")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches for 'fox', got %v", matches)
	}
}

func TestSearchShortPatternFallsBackToScan(t *testing.T) {
	st := New(Config{HotLimit: 100, WarmLimit: 1000, ColdLimit: 10000, BlockSize: 8})
	st.Push(lineOf("ab"), false)
	st.Push(lineOf("xy"), false)
	matches := st.Search("ab")
	if len(matches) != 1 || matches[0] != 0 {
		t.Errorf("expected short-pattern fallback to still find line 0, got %v", matches)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	st := New(Config{HotLimit: 2, WarmLimit: 4, ColdLimit: 10000, BlockSize: 2})
	for i := 0; i < 12; i++ {
		st.Push(lineOf(string(rune('a'+i))), i%3 == 0)
	}

	data, err := st.Checkpoint()
	if err != nil {
		t.Fatalf("Checkpoint failed: %v", err)
	}

	restored := New(Config{BlockSize: 2})
	if err := restored.Restore(data); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Len() != st.Len() {
		t.Fatalf("expected restored Len %d, got %d", st.Len(), restored.Len())
	}
	for i := 0; i < st.Len(); i++ {
		want := lineText(st.Line(i))
		got := lineText(restored.Line(i))
		if want != got {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestRestoreRejectsMalformedData(t *testing.T) {
	st := New(Config{})
	if err := st.Restore([]byte("not a checkpoint")); err == nil {
		t.Error("expected Restore to reject malformed input")
	}
}
