package parser

// Handler receives the decoded actions as the Parser walks the byte stream.
// Implementations (the Terminal state machine) must not retain the byte
// slices passed to PrintRun/OscDispatch/Put/SosPmApcDispatch past the call —
// the Parser reuses its internal buffers on the next Feed.
//
// This mirrors the callback-per-action shape of the classic VT500 parser
// table (and the vte/ansicode "Perform" trait it is usually implemented as
// in Go terminal emulators), kept here as a self-contained implementation
// since the parser's performance and recovery contracts need to be owned
// end-to-end rather than inherited from a third-party state table.
type Handler interface {
	// Print handles a single decoded rune in Ground state.
	Print(r rune)

	// PrintRun handles a contiguous run of printable ASCII (0x20-0x7E) in
	// Ground state in one call. Parsers must prefer this over per-rune Print
	// whenever a run is at least two bytes long; it is the throughput path
	// spec §4.1 requires.
	PrintRun(b []byte)

	// Execute handles a single C0/C1 control code outside of Print (BEL, BS,
	// TAB, LF, CR, etc).
	Execute(b byte)

	// CsiDispatch handles a completed CSI sequence. marker is the private
	// parameter-prefix byte (0 if none, e.g. '?' for DEC-private modes).
	// intermediates holds 0-2 bytes (0x20-0x2F). ignore is true if the
	// sequence exceeded the intermediate-byte bound and is being discarded
	// (final is still reported so the Handler can choose to ignore safely).
	CsiDispatch(params *Params, marker byte, intermediates []byte, ignore bool, final byte)

	// EscDispatch handles a completed two-or-three-byte escape sequence not
	// routed to CSI/OSC/DCS/SOS/PM/APC.
	EscDispatch(intermediates []byte, ignore bool, final byte)

	// OscDispatch handles a completed OSC string, pre-split on ';' into
	// parameter fields (field 0 is the numeric selector).
	OscDispatch(params [][]byte, bellTerminated bool)

	// Hook begins a DCS sequence (the parameter/intermediate prefix has just
	// completed); Put delivers each subsequent payload byte; Unhook closes
	// the sequence. Put may be called zero or more times between Hook and
	// Unhook.
	Hook(params *Params, marker byte, intermediates []byte, ignore bool, final byte)
	Put(b byte)
	Unhook()

	// SosPmApcDispatch handles a completed SOS/PM/APC string. kind is 'X'
	// (SOS), '^' (PM), or '_' (APC).
	SosPmApcDispatch(kind byte, data []byte)
}
