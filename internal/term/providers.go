package term

import "io"

// ResponseProvider writes terminal responses (cursor position reports,
// DECRQSS replies, DA/DSR answers) back to the PTY. Typically an io.Writer
// connected to the PTY input side.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

// BellProvider handles BEL (0x07).
type BellProvider interface {
	Ring()
}

// NoopBell ignores bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// TitleProvider handles window title changes (OSC 0/2, and the CSI 22/23 t
// title stack). OSC 1 sets only the icon name and does not reach it.
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// NoopTitle ignores all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(string) {}
func (NoopTitle) PushTitle()      {}
func (NoopTitle) PopTitle()       {}

// APCProvider handles Application Program Command payloads not claimed by
// the built-in Kitty graphics handler.
type APCProvider interface {
	Receive(data []byte)
}

// NoopAPC ignores APC payloads.
type NoopAPC struct{}

func (NoopAPC) Receive([]byte) {}

// PMProvider handles Privacy Message payloads.
type PMProvider interface {
	Receive(data []byte)
}

// NoopPM ignores PM payloads.
type NoopPM struct{}

func (NoopPM) Receive([]byte) {}

// SOSProvider handles Start-of-String payloads.
type SOSProvider interface {
	Receive(data []byte)
}

// NoopSOS ignores SOS payloads.
type NoopSOS struct{}

func (NoopSOS) Receive([]byte) {}

// ClipboardProvider handles OSC 52 clipboard read/write.
type ClipboardProvider interface {
	Read(clipboard byte) string
	Write(clipboard byte, data []byte)
}

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(byte) string      { return "" }
func (NoopClipboard) Write(byte, []byte)    {}

// RecordingProvider captures raw input bytes before parsing, for replay or
// debugging (independent of the Checkpoint/Snapshot serialization formats).
type RecordingProvider interface {
	Record(data []byte)
	Data() []byte
	Clear()
}

// NoopRecording discards all recordings.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

// ShellIntegrationProvider receives OSC 133 prompt/command lifecycle marks.
type ShellIntegrationProvider interface {
	PromptStart()
	CommandStart()
	CommandExecuted()
	CommandFinished(exitCode int)
}

// NoopShellIntegration ignores all shell-integration marks.
type NoopShellIntegration struct{}

func (NoopShellIntegration) PromptStart()            {}
func (NoopShellIntegration) CommandStart()           {}
func (NoopShellIntegration) CommandExecuted()        {}
func (NoopShellIntegration) CommandFinished(int)     {}

// SizeProvider answers pixel-level size queries needed by Sixel/Kitty image
// placement math (cell size in pixels).
type SizeProvider interface {
	CellSizePixels() (w, h int)
}

// NoopSize reports a conservative 1x1 cell size.
type NoopSize struct{}

func (NoopSize) CellSizePixels() (int, int) { return 1, 1 }

var (
	_ ResponseProvider         = NoopResponse{}
	_ BellProvider              = NoopBell{}
	_ TitleProvider             = NoopTitle{}
	_ APCProvider               = NoopAPC{}
	_ PMProvider                = NoopPM{}
	_ SOSProvider               = NoopSOS{}
	_ ClipboardProvider         = NoopClipboard{}
	_ RecordingProvider         = NoopRecording{}
	_ ShellIntegrationProvider  = NoopShellIntegration{}
	_ SizeProvider              = NoopSize{}
)
