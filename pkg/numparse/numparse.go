// Package numparse extracts finite numeric values from loosely formatted,
// locale-ambiguous input. Catalog feeds mix "1,234.56" and "1.234,56" styles
// and wrap numbers in unit text ("7,5 l/100km"). No external dependencies.
package numparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// tokenRe matches the first numeric group in a string: an optional sign,
// digits, and any number of separator+digits groups using '.' or ','.
var tokenRe = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)*`)

// Parse extracts a finite number from v. It accepts values that are already
// numbers, or text containing a numeric token surrounded by units or other
// noise. The second return is false when no finite value can be extracted.
//
// Separator disambiguation: the separator appearing last in the token is the
// decimal point; every earlier separator is a thousands separator and is
// dropped. A token with a single comma is therefore read as a decimal
// ("7,5" == 7.5), and "1.234,56" == "1,234.56" == 1234.56.
func Parse(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return parseText(n)
	default:
		return parseText(fmt.Sprint(v))
	}
}

func parseText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	tok := tokenRe.FindString(s)
	if tok == "" {
		return 0, false
	}

	lastSep := strings.LastIndexAny(tok, ".,")
	if lastSep != -1 {
		var b strings.Builder
		b.Grow(len(tok))
		for i := 0; i < len(tok); i++ {
			c := tok[i]
			switch {
			case c != '.' && c != ',':
				b.WriteByte(c)
			case i == lastSep:
				b.WriteByte('.')
			}
			// earlier separators are thousands marks: dropped
		}
		tok = b.String()
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
