package lines

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripMarks removes combining diacritics: "Març" becomes "Marc".
func StripMarks(s string) string {
	// transform.Chain keeps internal buffers, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases s and strips its diacritics, for case and accent
// insensitive comparison of labels and month names.
func Fold(s string) string {
	return strings.ToLower(StripMarks(strings.TrimSpace(s)))
}
