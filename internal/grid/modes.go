package grid

// MouseTrackingMode selects which mouse events are reported.
type MouseTrackingMode uint8

const (
	MouseTrackingOff MouseTrackingMode = iota
	MouseTrackingNormal                // report button press/release only
	MouseTrackingButtonEvent           // also report motion while a button is held
	MouseTrackingAnyEvent              // report all motion
)

// MouseEncoding selects how mouse coordinates are formatted in the report.
type MouseEncoding uint8

const (
	MouseEncodingDefault MouseEncoding = iota // X10: coordinates as raw bytes, max 223
	MouseEncodingUTF8
	MouseEncodingSGR
	MouseEncodingURXVT
	MouseEncodingSGRPixel
)

// Modes is the terminal mode register (spec §3): every DEC/ANSI mode set or
// reset via CSI h/l and CSI ?h/?l. Grid owns this register because cursor
// and erase semantics (origin mode, autowrap, insert) read it directly on
// every Print/cursor-move call; the Terminal state machine is the only
// writer, through its setMode.
type Modes struct {
	CursorKeysApplication bool // DECCKM
	VT52                  bool
	ColumnMode132         bool // DECCOLM
	ReverseVideo          bool // DECSCNM
	Origin                bool // DECOM
	AutoWrap              bool // DECAWM
	AutoRepeat            bool // DECARM
	CursorVisible         bool // DECTCEM
	Insert                bool // IRM
	LeftRightMargin       bool // DECLRMM
	ApplicationKeypad     bool // DECKPAM/DECKPNM
	FocusReporting        bool
	AlternateScreen       bool
	BracketedPaste        bool
	SynchronizedOutput    bool // mode 2026

	MouseTracking MouseTrackingMode
	MouseEncoding MouseEncoding
}

// DefaultModes returns the VT power-on mode state: autowrap, autorepeat and
// cursor visibility on, everything else off (spec §4.2 "Initial state").
func DefaultModes() Modes {
	return Modes{
		AutoWrap:      true,
		CursorVisible: true,
		AutoRepeat:    true,
	}
}
