package plugin

// HookPoint identifies one of the three attachment points a processor can
// subscribe to (spec §4.5).
type HookPoint int

const (
	HookOutput HookPoint = iota
	HookInput
	HookCommand
)

func (h HookPoint) String() string {
	switch h {
	case HookOutput:
		return "output"
	case HookInput:
		return "input"
	case HookCommand:
		return "command"
	default:
		return "unknown"
	}
}

// CommandPhase distinguishes the two command-lifecycle events a processor
// can observe at HookCommand (OSC 133 B/C start, 133 D complete).
type CommandPhase int

const (
	CommandStarted CommandPhase = iota
	CommandFinished
)

// Event is one unit of work the bridge enqueues for its processor chain.
// Only the fields relevant to Hook are meaningful.
type Event struct {
	Hook HookPoint

	// HookOutput / HookInput: the raw payload, in byte-stream / arrival
	// order respectively (spec §5 ordering guarantees).
	Data []byte

	// HookOutput only: true when this event represents an escape sequence
	// rather than printable output, so a processor can prioritize it
	// (spec §4.5 "a high-priority path exists for escape sequences").
	IsEscape bool

	// HookCommand only.
	Phase    CommandPhase
	Command  string
	ExitCode int
	Duration int64 // nanoseconds, set only on CommandFinished

	// Critical events are never dropped by queue overflow (spec §4.5
	// "overflow drops oldest non-critical events"); command-lifecycle
	// events and escape-sequence output are marked critical.
	Critical bool
}
