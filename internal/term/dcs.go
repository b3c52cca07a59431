package term

import (
	"fmt"
	"strings"

	"vtcore/internal/parser"
)

// dcsKind distinguishes the DCS sub-protocols the terminal recognizes.
type dcsKind int

const (
	dcsNone dcsKind = iota
	dcsSixel
	dcsRequestStatusString
	dcsUnknown
)

// hookDCS begins a DCS sequence (spec §6 DCS handling: Sixel, DECRQSS, and a
// consume-until-ST fallback for anything else).
func (t *Terminal) hookDCS(params *parser.Params, marker byte, intermediates []byte, final byte) {
	t.dcsBuf = t.dcsBuf[:0]
	t.dcsParams = t.dcsParams[:0]
	for i := 0; i < params.Len(); i++ {
		t.dcsParams = append(t.dcsParams, params.Get(i, 0))
	}
	t.dcsMarker = marker

	switch {
	case final == 'q' && len(intermediates) == 0:
		t.dcsActive = dcsSixel
	case final == 'q' && len(intermediates) == 1 && intermediates[0] == '$':
		t.dcsActive = dcsRequestStatusString
	default:
		t.dcsActive = dcsUnknown
	}
}

// putDCS appends one payload byte (spec: Put may be called zero or more
// times between Hook and Unhook).
func (t *Terminal) putDCS(b byte) {
	if t.dcsActive == dcsNone {
		return
	}
	t.dcsBuf = append(t.dcsBuf, b)
}

// unhookDCS finalizes and dispatches the buffered DCS payload.
func (t *Terminal) unhookDCS() {
	defer func() { t.dcsActive = dcsNone }()

	switch t.dcsActive {
	case dcsSixel:
		if !t.cfg.Sixel {
			return
		}
		t.handleSixel()
	case dcsRequestStatusString:
		t.handleDECRQSS()
	}
}

func (t *Terminal) handleSixel() {
	params := make([]int64, len(t.dcsParams))
	for i, p := range t.dcsParams {
		params[i] = int64(p)
	}
	img, err := ParseSixel(params, t.dcsBuf)
	if err != nil || img.Width == 0 {
		return
	}
	id := t.images.put(0, img)
	t.placeImage(id, img, 0, 0)
}

// handleDECRQSS answers "request status string" for the settings this
// terminal actually tracks (SGR, DECSTBM); anything else gets the
// "request invalid" reply per DEC convention.
func (t *Terminal) handleDECRQSS() {
	req := strings.TrimSuffix(string(t.dcsBuf), "\x1b\\")
	g := t.grid()
	var reply string
	switch req {
	case "m":
		reply = "0m" // power-on SGR; full attribute round-trip is a TODO
	case "r":
		reply = fmt.Sprintf("%d;%dr", g.ScrollTop+1, g.ScrollBottom)
	default:
		t.response.Write([]byte("\x1bP0$r" + req + "\x1b\\"))
		return
	}
	t.response.Write([]byte("\x1bP1$r" + reply + "\x1b\\"))
}

// handleKittyGraphics dispatches an APC "_G..." payload (spec §6 Kitty
// graphics), stamping a decoded image into the grid when transmission +
// display are requested together.
func (t *Terminal) handleKittyGraphics(data []byte) {
	if !t.cfg.Kitty {
		return
	}
	cmd, err := ParseKittyGraphics(data)
	if err != nil {
		return
	}
	switch cmd.Action {
	case KittyActionDelete:
		if cmd.ImageID != 0 {
			t.images.delete(cmd.ImageID)
		}
		return
	case KittyActionQuery:
		t.response.Write([]byte(FormatKittyResponse(cmd.ImageID, "OK", false)))
		return
	}

	img, err := cmd.DecodeImageData()
	if err != nil {
		if cmd.Quiet < 2 {
			t.response.Write([]byte(FormatKittyResponse(cmd.ImageID, err.Error(), true)))
		}
		return
	}
	id := t.images.put(cmd.ImageID, img)
	if cmd.Action == KittyActionTransmitDisplay || cmd.Action == KittyActionDisplay {
		t.placeImage(id, img, cmd.PlacementID, cmd.ZIndex)
	}
	if cmd.Quiet == 0 {
		t.response.Write([]byte(FormatKittyResponse(id, "OK", false)))
	}
}
