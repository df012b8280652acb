package board

import "strings"

// Fractional ordering keys. Tasks carry a rank string; sorting tasks by rank
// lexicographically gives the column order every client converges on. A new key
// can always be generated between two existing ones, so a reorder touches only
// the moved task.
//
// Keys produced here never end in '0', which guarantees RankBetween(lo, hi) can
// always find room below hi.

const rankDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// RankBetween returns a key strictly between lo and hi. Empty lo means "before
// everything", empty hi means "after everything". lo must be < hi when both are
// set.
func RankBetween(lo, hi string) string {
	if lo != "" && lo == hi {
		return lo
	}

	var out []byte
	for i := 0; ; i++ {
		dl := 0
		if i < len(lo) {
			dl = strings.IndexByte(rankDigits, lo[i])
		}
		dh := len(rankDigits)
		if i < len(hi) {
			dh = strings.IndexByte(rankDigits, hi[i])
		}

		if dh-dl > 1 {
			out = append(out, rankDigits[(dl+dh)/2])
			return string(out)
		}

		// equal or adjacent digits: copy the low digit and keep going. Once the
		// digits are adjacent the upper bound no longer constrains the rest.
		out = append(out, rankDigits[dl])
		if dh-dl == 1 {
			hi = ""
		}
	}
}

// RankAfter returns a key sorting after every existing key up to max.
func RankAfter(max string) string {
	return RankBetween(max, "")
}
