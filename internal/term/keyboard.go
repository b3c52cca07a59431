package term

import "fmt"

// Kitty keyboard protocol (spec §6 "Keyboard: Kitty keyboard protocol
// (disambiguate, event types, alternate keys, report-all, associated text,
// key release)"): applications push/pop/query a stack of enhancement-flag
// bitmasks via CSI >/</=/? ... u, independent of any DEC private mode.
const kittyKeyboardStackLimit = 32

// Kitty keyboard-protocol flag bits (spec §6).
const (
	KittyKeyboardDisambiguate   int32 = 1 << 0
	KittyKeyboardReportEvents   int32 = 1 << 1
	KittyKeyboardAlternateKeys  int32 = 1 << 2
	KittyKeyboardReportAllKeys  int32 = 1 << 3
	KittyKeyboardAssociatedText int32 = 1 << 4
)

// pushKeyboardFlags implements "CSI > flags u": push a new entry onto the
// enhancement-flag stack. The oldest entry is dropped once the stack is
// full rather than growing it unboundedly.
func (t *Terminal) pushKeyboardFlags(flags int32) {
	if len(t.kbFlags) >= kittyKeyboardStackLimit {
		copy(t.kbFlags, t.kbFlags[1:])
		t.kbFlags = t.kbFlags[:len(t.kbFlags)-1]
	}
	t.kbFlags = append(t.kbFlags, flags)
}

// popKeyboardFlags implements "CSI < n u": pop n entries (default/clamped
// to at least 1, at most the whole stack) off the enhancement-flag stack.
func (t *Terminal) popKeyboardFlags(n int32) {
	if n <= 0 {
		n = 1
	}
	if int(n) > len(t.kbFlags) {
		n = int32(len(t.kbFlags))
	}
	t.kbFlags = t.kbFlags[:len(t.kbFlags)-int(n)]
}

// setKeyboardFlags implements "CSI = flags ; mode u": mode 1 (default)
// replaces the top entry outright, mode 2 ORs flags into it, mode 3 clears
// those bits from it. A set with an empty stack creates the first entry.
func (t *Terminal) setKeyboardFlags(flags, mode int32) {
	var current int32
	if len(t.kbFlags) > 0 {
		current = t.kbFlags[len(t.kbFlags)-1]
	}

	var next int32
	switch mode {
	case 2:
		next = current | flags
	case 3:
		next = current &^ flags
	default:
		next = flags
	}

	if len(t.kbFlags) == 0 {
		t.kbFlags = append(t.kbFlags, next)
		return
	}
	t.kbFlags[len(t.kbFlags)-1] = next
}

// reportKeyboardFlags answers "CSI ? u" with the active (topmost) flags, 0
// if no application has opted in.
func (t *Terminal) reportKeyboardFlags() {
	t.response.Write([]byte(fmt.Sprintf("\x1b[?%du", t.activeKeyboardFlags())))
}

func (t *Terminal) activeKeyboardFlags() int32 {
	if len(t.kbFlags) == 0 {
		return 0
	}
	return t.kbFlags[len(t.kbFlags)-1]
}

// KeyboardFlags returns the active Kitty keyboard-protocol enhancement
// flags (0 if the application never opted in), for a front-end deciding how
// to encode a key event before calling FeedInput.
func (t *Terminal) KeyboardFlags() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeKeyboardFlags()
}
