package term

import (
	"context"
	"encoding/base64"
	"image/color"
	"strconv"
	"strings"

	"vtcore/internal/grid"
)

// dispatchOSC handles a completed OSC string, pre-split on ';' by the parser
// (spec §6 OSC list: title, palette, CWD, hyperlinks, colors, clipboard,
// shell integration, iTerm2 proprietary, notifications).
func (t *Terminal) dispatchOSC(fields [][]byte, bellTerminated bool) {
	if len(fields) == 0 {
		return
	}
	selector, err := strconv.Atoi(string(fields[0]))
	if err != nil {
		return
	}

	switch selector {
	case 0, 2:
		if len(fields) > 1 {
			t.title = string(fields[1])
			t.titleP.SetTitle(t.title)
		}
	case 1:
		if len(fields) > 1 {
			t.iconName = string(fields[1])
		}
	case 4:
		t.setPaletteEntries(fields[1:])
	case 104:
		t.resetPaletteEntries(fields[1:])
	case 10:
		if len(fields) > 1 {
			if c, ok := parseColorSpec(string(fields[1])); ok {
				t.palette.SetForeground(c)
			}
		}
	case 11:
		if len(fields) > 1 {
			if c, ok := parseColorSpec(string(fields[1])); ok {
				t.palette.SetBackground(c)
			}
		}
	case 110:
		t.palette.ResetForeground()
	case 111:
		t.palette.ResetBackground()
	case 7:
		if len(fields) > 1 {
			t.workingDir = parseFileURLPath(string(fields[1]))
		}
	case 8:
		t.dispatchHyperlink(fields[1:])
	case 9:
		if len(fields) > 1 {
			t.notification = string(fields[1])
			t.bell.Ring()
		}
	case 52:
		t.dispatchClipboard(fields[1:])
	case 133:
		t.dispatchShellIntegration(fields[1:])
	case 777:
		if len(fields) > 2 && string(fields[1]) == "notify" {
			t.notification = string(fields[2])
			t.bell.Ring()
		}
	case 1337:
		if len(fields) > 1 {
			t.apc.Receive(fields[1])
		}
	}
}

func (t *Terminal) setPaletteEntries(fields [][]byte) {
	for i := 0; i+1 < len(fields); i += 2 {
		idx, err := strconv.Atoi(string(fields[i]))
		if err != nil {
			continue
		}
		spec := string(fields[i+1])
		if spec == "?" {
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			t.palette.SetOverride(idx, c)
		}
	}
}

func (t *Terminal) resetPaletteEntries(fields [][]byte) {
	if len(fields) == 0 {
		for i := 0; i < 16; i++ {
			t.palette.ResetOverride(i)
		}
		return
	}
	for _, f := range fields {
		idx, err := strconv.Atoi(string(f))
		if err != nil {
			continue
		}
		t.palette.ResetOverride(idx)
	}
}

// parseColorSpec parses the xterm "rgb:RR/GG/BB" (and shorthand "#RRGGBB")
// color-spec forms used by OSC 4/10/11/104.
func parseColorSpec(spec string) (color.RGBA, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(strings.TrimPrefix(spec, "rgb:"), "/")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		r, okR := parseHexComponent(parts[0])
		g, okG := parseHexComponent(parts[1])
		b, okB := parseHexComponent(parts[2])
		if !okR || !okG || !okB {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}
	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		r, okR := parseHexComponent(spec[1:3])
		g, okG := parseHexComponent(spec[3:5])
		b, okB := parseHexComponent(spec[5:7])
		if !okR || !okG || !okB {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}
	return color.RGBA{}, false
}

// parseHexComponent takes the leading two hex digits of an arbitrary-width
// (4/8/12/16-bit) xterm color component and scales it to 8 bits.
func parseHexComponent(hex string) (uint8, bool) {
	if len(hex) == 0 {
		return 0, false
	}
	if len(hex) > 2 {
		hex = hex[:2]
	}
	v, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, false
	}
	if len(hex) == 1 {
		v = v*16 + v
	}
	return uint8(v), true
}

func parseFileURLPath(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		rest := u[i+3:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			return rest[slash:]
		}
	}
	return u
}

// dispatchHyperlink handles OSC 8 ; params ; uri (spec supplement, grounded
// in the teacher's hyperlink handling). The active hyperlink is carried on
// the cell template so subsequent Print calls stamp it onto new cells,
// mirroring how SGR attributes ride the template.
func (t *Terminal) dispatchHyperlink(fields [][]byte) {
	var uri, id string
	if len(fields) > 0 {
		for _, kv := range strings.Split(string(fields[0]), ":") {
			if strings.HasPrefix(kv, "id=") {
				id = strings.TrimPrefix(kv, "id=")
			}
		}
	}
	if len(fields) > 1 {
		uri = string(fields[1])
	}
	tmpl := &t.grid().Template.Cell
	if uri == "" {
		tmpl.Hyperlink = nil
		tmpl.ClearFlag(grid.FlagHasHyperlink)
		return
	}
	tmpl.Hyperlink = &grid.Hyperlink{ID: id, URI: uri}
	tmpl.SetFlag(grid.FlagHasHyperlink)
}

func (t *Terminal) dispatchClipboard(fields [][]byte) {
	if len(fields) < 2 {
		return
	}
	selectors := string(fields[0])
	if selectors == "" {
		selectors = "c"
	}
	payload := string(fields[1])
	if payload == "?" {
		for _, sel := range selectors {
			data := t.clipboard.Read(byte(sel))
			t.response.Write([]byte("\x1b]52;" + string(sel) + ";" + base64.StdEncoding.EncodeToString([]byte(data)) + "\x1b\\"))
		}
		return
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}
	for _, sel := range selectors {
		t.clipboard.Write(byte(sel), data)
	}
}

// dispatchShellIntegration handles OSC 133 A/B/C/D marks (spec supplement,
// grounded in the teacher's shell_integration.go/semantic_prompt.go).
func (t *Terminal) dispatchShellIntegration(fields [][]byte) {
	if len(fields) == 0 {
		return
	}
	kind := fields[0]
	if len(kind) == 0 {
		return
	}
	row := t.grid().Cursor.Row
	switch kind[0] {
	case 'A':
		t.promptMarks = append(t.promptMarks, PromptMark{Row: row, Kind: 'A'})
		t.shellInt.PromptStart()
	case 'B':
		t.promptMarks = append(t.promptMarks, PromptMark{Row: row, Kind: 'B'})
		t.shellInt.CommandStart()
		if t.bridge != nil {
			t.bridge.DispatchCommandStarted(context.Background(), "")
		}
	case 'C':
		t.promptMarks = append(t.promptMarks, PromptMark{Row: row, Kind: 'C'})
		t.shellInt.CommandExecuted()
	case 'D':
		exitCode := 0
		if len(fields) > 1 {
			if v, err := strconv.Atoi(string(fields[1])); err == nil {
				exitCode = v
			}
		}
		t.promptMarks = append(t.promptMarks, PromptMark{Row: row, Kind: 'D', ExitCode: exitCode})
		t.shellInt.CommandFinished(exitCode)
		if t.bridge != nil {
			t.bridge.DispatchCommandFinished(context.Background(), "", exitCode, 0)
		}
	}
}
