package parser

import "testing"

type recorder struct {
	prints  []rune
	runs    []string
	execs   []byte
	csis    []string
	escs    []string
	oscs    [][]string
	hooked  bool
	puts    []byte
	unhooks int
	sosPmApc []string
}

func (r *recorder) Print(c rune)    { r.prints = append(r.prints, c) }
func (r *recorder) PrintRun(b []byte) { r.runs = append(r.runs, string(b)) }
func (r *recorder) Execute(b byte)  { r.execs = append(r.execs, b) }
func (r *recorder) CsiDispatch(p *Params, marker byte, inter []byte, ignore bool, final byte) {
	s := string(inter) + string(final)
	if marker != 0 {
		s = string(marker) + s
	}
	r.csis = append(r.csis, s)
}
func (r *recorder) EscDispatch(inter []byte, ignore bool, final byte) {
	r.escs = append(r.escs, string(inter)+string(final))
}
func (r *recorder) OscDispatch(fields [][]byte, bell bool) {
	var out []string
	for _, f := range fields {
		out = append(out, string(f))
	}
	r.oscs = append(r.oscs, out)
}
func (r *recorder) Hook(p *Params, marker byte, inter []byte, ignore bool, final byte) { r.hooked = true }
func (r *recorder) Put(b byte)                                                         { r.puts = append(r.puts, b) }
func (r *recorder) Unhook()                                                            { r.unhooks++ }
func (r *recorder) SosPmApcDispatch(kind byte, data []byte) {
	r.sosPmApc = append(r.sosPmApc, string(kind)+string(data))
}

func TestFeedBatchesASCIIRun(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("hello"), r)

	if len(r.runs) != 1 || r.runs[0] != "hello" {
		t.Fatalf("expected one batched run %q, got %v", "hello", r.runs)
	}
	if len(r.prints) != 0 {
		t.Errorf("expected no per-rune Print calls for a run, got %v", r.prints)
	}
}

func TestFeedSingleCharNotBatched(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("a"), r)
	if len(r.prints) != 1 || r.prints[0] != 'a' {
		t.Fatalf("expected single Print('a'), got prints=%v runs=%v", r.prints, r.runs)
	}
}

func TestFeedCsiDispatch(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1b[1;31m"), r)
	if len(r.csis) != 1 || r.csis[0] != "m" {
		t.Fatalf("expected CSI dispatch 'm', got %v", r.csis)
	}
}

func TestCsiParamsParsed(t *testing.T) {
	p := New()
	var got *Params
	h := &handlerFunc{csi: func(params *Params, marker byte, inter []byte, ignore bool, final byte) {
		cp := *params
		got = &cp
	}}
	p.Feed([]byte("\x1b[1;31m"), h)
	if got == nil {
		t.Fatal("expected CsiDispatch to be called")
	}
	if got.Len() != 2 || got.Get(0, -1) != 1 || got.Get(1, -1) != 31 {
		t.Errorf("expected params [1,31], got len=%d vals=%v", got.Len(), got.All())
	}
}

func TestCsiPrivateMarker(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1b[?1049h"), r)
	if len(r.csis) != 1 || r.csis[0] != "?h" {
		t.Fatalf("expected private-marker CSI '?h', got %v", r.csis)
	}
}

func TestOscDispatchWithSTTerminator(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1b]0;my title\x1b\\"), r)
	if len(r.oscs) != 1 {
		t.Fatalf("expected one OSC dispatch, got %v", r.oscs)
	}
	if r.oscs[0][0] != "0" || r.oscs[0][1] != "my title" {
		t.Errorf("expected fields [0, \"my title\"], got %v", r.oscs[0])
	}
}

func TestOscDispatchWithBELTerminator(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1b]0;bell-term\x07"), r)
	if len(r.oscs) != 1 || r.oscs[0][1] != "bell-term" {
		t.Fatalf("expected BEL-terminated OSC dispatch, got %v", r.oscs)
	}
}

func TestOscSplitAcrossFeedCalls(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1b]0;par"), r)
	p.Feed([]byte("tial\x07"), r)
	if len(r.oscs) != 1 || r.oscs[0][1] != "partial" {
		t.Fatalf("expected OSC string reassembled across Feed calls, got %v", r.oscs)
	}
}

func TestDcsHookPutUnhook(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1bPq#0;2;0;0;0\x1b\\"), r)
	if !r.hooked {
		t.Fatal("expected Hook to be called")
	}
	if r.unhooks != 1 {
		t.Fatalf("expected exactly one Unhook call, got %d", r.unhooks)
	}
	if len(r.puts) == 0 {
		t.Error("expected Put calls for the DCS payload")
	}
}

func TestCANAbortsSequenceToGround(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1b[1;3"), r) // incomplete CSI
	p.Feed([]byte{0x18}, r)       // CAN
	p.Feed([]byte("ok"), r)

	if len(r.csis) != 0 {
		t.Errorf("expected the aborted CSI never to dispatch, got %v", r.csis)
	}
	if len(r.runs) != 1 || r.runs[0] != "ok" {
		t.Fatalf("expected parser back in Ground printing 'ok', got runs=%v prints=%v", r.runs, r.prints)
	}
}

func TestSUBAbortsDcsToGround(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1bPq#0"), r)
	p.Feed([]byte{0x1A}, r) // SUB mid-DCS
	if !r.hooked {
		t.Fatal("expected Hook to have fired before the abort")
	}
	if r.unhooks != 1 {
		t.Errorf("expected Unhook to balance the aborted Hook, got %d calls", r.unhooks)
	}
	p.Feed([]byte("z"), r)
	if len(r.prints) != 1 || r.prints[0] != 'z' {
		t.Errorf("expected parser recovered to Ground, got prints=%v", r.prints)
	}
}

func TestParamValueSaturatesAtBound(t *testing.T) {
	p := New()
	var got int32
	h := &handlerFunc{csi: func(params *Params, marker byte, inter []byte, ignore bool, final byte) {
		got = params.Get(0, -1)
	}}
	p.Feed([]byte("\x1b[999999999m"), h)
	if got != MaxParamValue {
		t.Errorf("expected param saturated at %d, got %d", MaxParamValue, got)
	}
}

func TestExcessParamsAreAbsorbedNotPanicked(t *testing.T) {
	p := New()
	var got *Params
	h := &handlerFunc{csi: func(params *Params, marker byte, inter []byte, ignore bool, final byte) {
		cp := *params
		got = &cp
	}}
	seq := "\x1b["
	for i := 0; i < 40; i++ {
		if i > 0 {
			seq += ";"
		}
		seq += "1"
	}
	seq += "m"
	p.Feed([]byte(seq), h)
	if got.Len() != MaxParams {
		t.Errorf("expected param list capped at %d, got %d", MaxParams, got.Len())
	}
}

func TestUTF8DecodeAcrossFeedBoundary(t *testing.T) {
	p := New()
	r := &recorder{}
	euro := []byte{0xE2, 0x82, 0xAC} // '€'
	p.Feed(euro[:1], r)
	p.Feed(euro[1:], r)
	if len(r.prints) != 1 || r.prints[0] != '€' {
		t.Fatalf("expected '€' decoded across Feed calls, got %v", r.prints)
	}
}

func TestEscDispatch(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Feed([]byte("\x1bc"), r) // RIS
	if len(r.escs) != 1 || r.escs[0] != "c" {
		t.Fatalf("expected EscDispatch('c'), got %v", r.escs)
	}
}

func TestNeverPanicsOnRandomBytes(t *testing.T) {
	p := New()
	r := &recorder{}
	defer func() {
		if rec := recover(); rec != nil {
			t.Fatalf("parser panicked on malformed input: %v", rec)
		}
	}()
	input := []byte{
		0x1b, '[', '?', ':', ';', 0x1b, ']', 0x1b, 'P', 0x18, 0x1a, 0xff, 0xfe,
		0x1b, '\\', 0x07, 0x1b, '[', '1', ':', '2', ':', '3', 'm',
	}
	p.Feed(input, r)
}

// handlerFunc adapts individual callbacks to Handler for focused assertions.
type handlerFunc struct {
	csi func(params *Params, marker byte, inter []byte, ignore bool, final byte)
}

func (h *handlerFunc) Print(rune)                                          {}
func (h *handlerFunc) PrintRun([]byte)                                     {}
func (h *handlerFunc) Execute(byte)                                        {}
func (h *handlerFunc) EscDispatch([]byte, bool, byte)                      {}
func (h *handlerFunc) OscDispatch([][]byte, bool)                          {}
func (h *handlerFunc) Hook(*Params, byte, []byte, bool, byte)              {}
func (h *handlerFunc) Put(byte)                                            {}
func (h *handlerFunc) Unhook()                                             {}
func (h *handlerFunc) SosPmApcDispatch(byte, []byte)                       {}
func (h *handlerFunc) CsiDispatch(params *Params, marker byte, inter []byte, ignore bool, final byte) {
	if h.csi != nil {
		h.csi(params, marker, inter, ignore, final)
	}
}
