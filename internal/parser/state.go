package parser

// state is the parser's current position in the VT500-style state machine
// (spec §4.1). Every state transition is driven by a single input byte; no
// transition ever looks ahead or backtracks.
type state uint8

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString
)

func isIntermediate(b byte) bool { return b >= 0x20 && b <= 0x2F }
func isCsiFinal(b byte) bool     { return b >= 0x40 && b <= 0x7E }
func isParamDigit(b byte) bool   { return b >= 0x30 && b <= 0x39 }
func isPrivateMarker(b byte) bool {
	return b == '?' || b == '<' || b == '=' || b == '>'
}
func isPrintable(b byte) bool { return b >= 0x20 && b <= 0x7E }
func isC0(b byte) bool        { return b <= 0x1F }
