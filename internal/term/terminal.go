// Package term implements the Terminal State Machine (spec §4.3): it wires
// the VT Parser's Handler callbacks onto two grid.Grid screens (primary and
// alternate), a scrollback.Store, and a plugin.Bridge, translating every
// parsed control action into a grid/scrollback/plugin call. term is the
// only package that imports parser, grid, scrollback, and plugin together;
// of those, only scrollback imports another (grid, for its cell type).
package term

import (
	"context"
	"sync"

	"vtcore/internal/grid"
	"vtcore/internal/parser"
	"vtcore/internal/plugin"
	"vtcore/internal/scrollback"
)

// Terminal is the top-level state machine: one parser feeding one pair of
// grids (primary + alternate), backed by tiered scrollback and an optional
// plugin bridge.
type Terminal struct {
	mu sync.Mutex

	cfg Config

	parser *parser.Parser

	primary   *grid.Grid
	alternate *grid.Grid
	active    *grid.Grid // always one of primary/alternate

	scrollback *scrollback.Store
	bridge     *plugin.Bridge

	title       string
	titleStack  []string
	iconName    string
	workingDir  string
	userVars    map[string]string
	palette     *grid.Palette
	notification string

	response ResponseProvider
	bell     BellProvider
	titleP   TitleProvider
	apc      APCProvider
	pm       PMProvider
	sos      SOSProvider
	clipboard ClipboardProvider
	recording RecordingProvider
	shellInt  ShellIntegrationProvider
	size      SizeProvider

	dcsActive      dcsKind
	dcsBuf         []byte
	dcsParams      []int32
	dcsMarker      byte

	images *imageStore

	kbFlags []int32

	promptMarks []PromptMark

	observers []func(ConfigChange)
}

// PromptMark records one OSC 133 shell-integration boundary (supplemented
// feature, grounded in the teacher's shell_integration.go).
type PromptMark struct {
	Row      int
	Kind     byte // 'A' prompt start, 'B' command start, 'C' output start, 'D' finished
	ExitCode int
}

// New constructs a Terminal. Options configure size, scrollback tier
// limits, and optional feature toggles (spec §4.3, §6 configuration surface).
func New(opts ...Option) *Terminal {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	sb := scrollback.New(scrollback.Config{
		HotLimit:  cfg.ScrollbackHotLimit,
		WarmLimit: cfg.ScrollbackWarmLimit,
		ColdLimit: cfg.ScrollbackColdLimit,
		BlockSize: cfg.ScrollbackBlockSize,
		MemBudget: cfg.ScrollbackMemBudget,
		SpillDir:  cfg.ScrollbackSpillDir,
	})

	t := &Terminal{
		cfg:        cfg,
		parser:     parser.New(),
		primary:    grid.NewGrid(cfg.Rows, cfg.Cols, sb),
		alternate:  grid.NewGrid(cfg.Rows, cfg.Cols, nil),
		scrollback: sb,
		userVars:   make(map[string]string),
		palette:    grid.NewPalette(),
		images:     newImageStore(),
		response:   NoopResponse{},
		bell:       NoopBell{},
		titleP:     NoopTitle{},
		apc:        NoopAPC{},
		pm:         NoopPM{},
		sos:        NoopSOS{},
		clipboard:  NoopClipboard{},
		recording:  NoopRecording{},
		shellInt:   NoopShellIntegration{},
		size:       NoopSize{},
	}
	t.active = t.primary
	return t
}

// SetBridge attaches a Plugin Bridge. Output/Input hook points are
// exercised from Feed/FeedInput once a bridge is set; nil detaches it.
func (t *Terminal) SetBridge(b *plugin.Bridge) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bridge = b
}

func (t *Terminal) SetResponseProvider(p ResponseProvider)             { t.response = p }
func (t *Terminal) SetBellProvider(p BellProvider)                     { t.bell = p }
func (t *Terminal) SetTitleProvider(p TitleProvider)                   { t.titleP = p }
func (t *Terminal) SetAPCProvider(p APCProvider)                       { t.apc = p }
func (t *Terminal) SetPMProvider(p PMProvider)                         { t.pm = p }
func (t *Terminal) SetSOSProvider(p SOSProvider)                       { t.sos = p }
func (t *Terminal) SetClipboardProvider(p ClipboardProvider)           { t.clipboard = p }
func (t *Terminal) SetRecordingProvider(p RecordingProvider)           { t.recording = p }
func (t *Terminal) SetShellIntegrationProvider(p ShellIntegrationProvider) { t.shellInt = p }
func (t *Terminal) SetSizeProvider(p SizeProvider)                     { t.size = p }

// Feed is the sole PTY ingress (spec §6 "feed(bytes)"). It holds the
// Terminal's mutex for the whole call, so concurrent callers are serialized
// one Feed at a time; Terminal owns no internal queue for Feed itself.
func (t *Terminal) Feed(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bridge != nil {
		res := t.bridge.DispatchOutput(context.Background(), data, false)
		if res.Consumed {
			return
		}
		data = res.Data
		t.applyEmittedInput(res.EmittedInput)
	}

	t.recording.Record(data)
	t.parser.Feed(data, (*handlerAdapter)(t))
}

// Write implements io.Writer over Feed, so a Terminal can sit directly as a
// command's Stdout/Stderr.
func (t *Terminal) Write(p []byte) (int, error) {
	t.Feed(p)
	return len(p), nil
}

// FeedInput routes a key/paste event through the Input hook before handing
// it to the ResponseProvider (the PTY input sink), per spec §4.5.
func (t *Terminal) FeedInput(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bridge != nil {
		res := t.bridge.DispatchInput(context.Background(), data)
		if res.Consumed {
			return
		}
		data = res.Data
		t.applyEmittedInput(res.EmittedInput)
	}
	t.response.Write(data)
}

func (t *Terminal) applyEmittedInput(emitted [][]byte) {
	for _, b := range emitted {
		t.response.Write(b)
	}
}

// handlerAdapter lets Terminal implement parser.Handler without exposing
// those methods on Terminal's own public surface (Print/Execute/etc would
// otherwise collide with a nicer public API later).
type handlerAdapter Terminal

func (t *Terminal) grid() *grid.Grid { return t.active }

func (t *Terminal) palette_() *grid.Palette { return t.palette }

// reset performs RIS (ESC c): both screens return to power-on state, the
// primary screen becomes active, and window title/icon are cleared.
func (t *Terminal) reset() {
	t.active = t.primary
	for _, g := range []*grid.Grid{t.primary, t.alternate} {
		g.Modes = grid.DefaultModes()
		g.Template = grid.DefaultTemplate()
		g.Cursor = grid.NewCursor()
		g.GL, g.GR = grid.G0, grid.G0
		g.Charsets = [4]grid.Charset{}
		g.EraseDisplay(grid.EraseAll)
	}
	t.title = ""
	t.iconName = ""
	t.titleStack = nil
	t.kbFlags = nil
}
