package term

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width Print should reserve for r: 2 for wide
// characters (CJK, emoji), 1 for normal, 0 for combining marks/control chars.
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}
