package dates

import (
	"strings"
	"time"

	"github.com/Veraticus/docket/internal/lines"
)

// Language selects a month-name table.
type Language string

// Supported languages.
const (
	Catalan Language = "ca"
	Spanish Language = "es"
	English Language = "en"
)

// Month tables are keyed by folded name (lowercase, no diacritics).
var monthTables = map[Language]map[string]time.Month{
	Catalan: {
		"gener": time.January, "febrer": time.February, "marc": time.March,
		"abril": time.April, "maig": time.May, "juny": time.June,
		"juliol": time.July, "agost": time.August, "setembre": time.September,
		"octubre": time.October, "novembre": time.November, "desembre": time.December,
	},
	Spanish: {
		"enero": time.January, "febrero": time.February, "marzo": time.March,
		"abril": time.April, "mayo": time.May, "junio": time.June,
		"julio": time.July, "agosto": time.August, "septiembre": time.September,
		"setiembre": time.September, "octubre": time.October,
		"noviembre": time.November, "diciembre": time.December,
	},
	English: {
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
		"sep": time.September, "sept": time.September, "oct": time.October,
		"nov": time.November, "dec": time.December,
	},
}

// LookupMonth resolves a month name in any of langs, ignoring case and
// diacritics. A Catalan elided article ("d'abril") is dropped first.
func LookupMonth(name string, langs ...Language) (time.Month, bool) {
	key := lines.Fold(name)
	for _, apostrophe := range []string{"d'", "d’"} {
		key = strings.TrimPrefix(key, apostrophe)
	}
	for _, lang := range langs {
		if m, ok := monthTables[lang][key]; ok {
			return m, true
		}
	}
	return 0, false
}
