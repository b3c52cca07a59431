package parser

// Bounds on CSI/DCS parameter accumulation (spec §4.1 "Bounded resource
// usage"). A sequence that exceeds any of these is not malformed in the
// protocol sense — the parser keeps consuming it — it just stops growing
// the parameter list and saturates the value instead of overflowing.
const (
	MaxParams    = 16
	MaxSubParams = 16
	MaxParamValue = 16383
)

// Params holds the parameter list of a CSI or DCS sequence. Each top-level
// parameter may carry colon-separated sub-parameters (e.g. SGR 4:3, or
// 38:2::r:g:b); Params stores both tiers without ever allocating per-call once
// warmed up, since the backing arrays are fixed-size and reused across Parser
// calls via Reset.
type Params struct {
	values    [MaxParams]int32
	subValues [MaxParams][MaxSubParams]int32
	subCounts [MaxParams]uint8
	count     int
	subOpen   bool // the last top-level parameter was followed by ':'
}

// Reset clears the parameter list for reuse without reallocating.
func (p *Params) Reset() {
	p.count = 0
	p.subOpen = false
	for i := range p.subCounts {
		p.subCounts[i] = 0
	}
}

// Len returns the number of top-level parameters.
func (p *Params) Len() int { return p.count }

// Get returns the i'th top-level parameter, or def if i is beyond Len. An
// elided parameter before a ';' (the empty one in "CSI ;5H") is stored as 0,
// so Get returns 0 for it, not def.
func (p *Params) Get(i int, def int32) int32 {
	if i < 0 || i >= p.count {
		return def
	}
	return p.values[i]
}

// SubCount returns how many sub-parameters follow the i'th top-level
// parameter (0 if none).
func (p *Params) SubCount(i int) int {
	if i < 0 || i >= p.count {
		return 0
	}
	return int(p.subCounts[i])
}

// Sub returns the j'th sub-parameter of the i'th top-level parameter.
func (p *Params) Sub(i, j int) int32 {
	if i < 0 || i >= p.count || j < 0 || j >= int(p.subCounts[i]) {
		return 0
	}
	return p.subValues[i][j]
}

// All returns the top-level values as a slice backed by Params' own array;
// callers must not retain it past the next Reset.
func (p *Params) All() []int32 { return p.values[:p.count] }

// pushParam records a value ended by ';' or the final byte. If it closes a
// colon group it becomes that group's last sub-parameter; otherwise it is
// appended as a new top-level parameter, saturating rather than growing past
// MaxParams; extra parameters beyond the bound are silently absorbed (spec's
// "bounded parameter overflow" behavior).
func (p *Params) pushParam(v int32) {
	if p.subOpen {
		p.pushSub(v)
		p.subOpen = false
		return
	}
	if p.count >= MaxParams {
		return
	}
	p.values[p.count] = v
	p.subCounts[p.count] = 0
	p.count++
}

// pushSub records a value followed by ':'. The first value of a colon group
// becomes a new top-level parameter; later ones are appended as
// sub-parameters of it, saturating at MaxSubParams.
func (p *Params) pushSub(v int32) {
	if !p.subOpen {
		if p.count < MaxParams {
			p.pushParam(v)
			p.subOpen = true
		}
		return
	}
	if p.count == 0 {
		return
	}
	i := p.count - 1
	if int(p.subCounts[i]) >= MaxSubParams {
		return
	}
	p.subValues[i][p.subCounts[i]] = v
	p.subCounts[i]++
}
