// Package vtcore is a headless VT/ECMA-48 terminal emulator core: a VT
// parser, a 2D cell grid with dual screens, tiered scrollback, and a
// sandboxed plugin bridge, wired together by internal/term.
//
// The four subsystems (internal/parser, internal/grid, internal/scrollback,
// internal/plugin) are implementation detail; this package is the only
// public surface, re-exporting internal/term's Terminal as vtcore.Terminal.
//
//	t := vtcore.New(vtcore.WithSize(24, 80))
//	t.Write([]byte("\x1b[31mHello\x1b[0m"))
//	fmt.Println(t.VisibleRows()[0])
package vtcore

import "vtcore/internal/term"

// Terminal is a headless terminal: feed it raw PTY output, query cursor
// position, visible rows, scrollback, or a JSON-able snapshot.
type Terminal = term.Terminal

// Config is Terminal's construction-time configuration, also usable with
// ApplyConfig to reconfigure a live Terminal.
type Config = term.Config

// Option configures a Terminal during construction; see With* below.
type Option = term.Option

// CursorState, DirtyRegion, SearchMatch/SearchOptions, ConfigChange, and the
// Snapshot family describe Terminal's query surface.
type (
	CursorState   = term.CursorState
	DirtyRegion   = term.DirtyRegion
	SearchMatch   = term.SearchMatch
	SearchOptions = term.SearchOptions
	ConfigChange  = term.ConfigChange

	SnapshotDetail  = term.SnapshotDetail
	Snapshot        = term.Snapshot
	SnapshotSize    = term.SnapshotSize
	SnapshotCursor  = term.SnapshotCursor
	SnapshotLine    = term.SnapshotLine
	SnapshotSegment = term.SnapshotSegment
	SnapshotCell    = term.SnapshotCell
	SnapshotAttrs   = term.SnapshotAttrs
	SnapshotLink    = term.SnapshotLink
	SnapshotImage   = term.SnapshotImage
	ImageData       = term.ImageData

	PromptMark = term.PromptMark
)

const (
	SnapshotDetailText   = term.SnapshotDetailText
	SnapshotDetailStyled = term.SnapshotDetailStyled
	SnapshotDetailFull   = term.SnapshotDetailFull
)

// Provider interfaces let a host wire PTY responses, bell, title, clipboard,
// recording, shell-integration, and pixel-size hooks into a Terminal.
type (
	ResponseProvider         = term.ResponseProvider
	BellProvider             = term.BellProvider
	TitleProvider            = term.TitleProvider
	APCProvider              = term.APCProvider
	PMProvider               = term.PMProvider
	SOSProvider              = term.SOSProvider
	ClipboardProvider        = term.ClipboardProvider
	RecordingProvider        = term.RecordingProvider
	ShellIntegrationProvider = term.ShellIntegrationProvider
	SizeProvider             = term.SizeProvider
)

// New constructs a Terminal. Options configure size, scrollback tier limits,
// and optional Sixel/Kitty graphics support.
func New(opts ...Option) *Terminal { return term.New(opts...) }

// DefaultConfig returns the power-on configuration (80x24, sixel and kitty
// enabled, spec-default scrollback tier thresholds).
func DefaultConfig() Config { return term.DefaultConfig() }

var (
	WithSize                   = term.WithSize
	WithAutoResize             = term.WithAutoResize
	WithSixel                  = term.WithSixel
	WithKitty                  = term.WithKitty
	WithScrollbackLimits       = term.WithScrollbackLimits
	WithScrollbackMemoryBudget = term.WithScrollbackMemoryBudget
	WithScrollbackSpillDir     = term.WithScrollbackSpillDir
)
