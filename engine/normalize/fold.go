// Package normalize turns loosely-shaped upstream vehicle records into
// canonical propulsion classifications, consumption figures, and display
// labels. Every function is pure: malformed or missing data resolves to an
// absent value, never an error.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases, trims, and strips diacritic marks so that descriptor
// matching is accent-insensitive ("Eléctrico" matches "electrico"). A fresh
// transformer chain is built per call; the chain carries decode state and is
// not safe to share across goroutines.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
