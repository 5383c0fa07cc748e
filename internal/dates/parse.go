package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericToken matches dd.mm.yy, dd.mm.yyyy, dd/mm/yy, dd/mm/yyyy (and "-")
// at the start of a value, ignoring whatever trails it.
var numericToken = regexp.MustCompile(`^\s*(\d{2})([./-])(\d{2})([./-])(\d{4}|\d{2})\b`)

// ParseNumeric parses a day-first numeric date such as "01.03.2019" or
// "20/12/17". Trailing text after the date is ignored.
func ParseNumeric(value string) (time.Time, error) {
	m := numericToken.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a numeric date", ErrInvalidDate, value)
	}
	return numericParts(m)
}

func hasNumericToken(value string) bool {
	return numericToken.MatchString(value)
}

func numericParts(m []string) (time.Time, error) {
	if m[2] != m[4] {
		return time.Time{}, fmt.Errorf("%w: mixed separators in %q", ErrInvalidDate, strings.TrimSpace(m[0]))
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[3])
	year := expandYear(m[5])
	return Validate(year, time.Month(month), day)
}

// expandYear turns a two-digit year into a full one the way time.Parse
// does for the "06" layout: 69-99 is the 1900s, 00-68 the 2000s.
func expandYear(s string) int {
	year, _ := strconv.Atoi(s)
	if len(s) > 2 {
		return year
	}
	if year >= 69 {
		return 1900 + year
	}
	return 2000 + year
}

// FormatNumeric renders a date in the layout ParseNumeric reads, with sep
// between the parts and a four-digit year.
func FormatNumeric(t time.Time, sep string) string {
	return t.Format("02" + sep + "01" + sep + "2006")
}

var ordinalSuffix = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

var gbLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"02/01/2006",
	"02-01-2006",
}

// ParseGB parses the day-first dates of British statements: "5th Mar 2018",
// "24 April 2019", "30/06/2019" or "11-02-2014".
func ParseGB(value string) (time.Time, error) {
	cleaned := ordinalSuffix.ReplaceAllString(strings.TrimSpace(value), "$1")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	for _, layout := range gbLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return validateTime(t)
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
