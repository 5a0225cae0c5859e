// Package textutil provides text normalization for matching keys.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases the input and removes combining diacritical marks
// ("Café" -> "cafe"). It is a total function: any input yields a result, and
// the empty string maps to itself. Normalize must be applied on both write
// and read paths for matching to succeed.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// Mark removal cannot fail on valid UTF-8; fall back to the
		// lower-cased input for anything else.
		return strings.ToLower(s)
	}
	return out
}
