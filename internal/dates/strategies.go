package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/Veraticus/docket/internal/lines"
)

// Override pins a known corrupted block to a fixed date.
type Override struct {
	Prefix string
	Date   time.Time
}

// Name implements Strategy.
func (o Override) Name() string { return "override" }

// Match implements Strategy.
func (o Override) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	if strings.HasPrefix(seq[i], o.Prefix) {
		return found(o.Date)
	}
	return miss()
}

// BlockLabel matches a block whose head is a label ("DATA", "FECHA") and
// whose value follows the label after a line break or a comma, as in
// "FECHA\n01.03.2019" or "DATA,11/05/2018". Labels are compared folded.
type BlockLabel struct {
	Labels []string
}

// Name implements Strategy.
func (b BlockLabel) Name() string { return "label" }

// Match implements Strategy.
func (b BlockLabel) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	line := seq[i]
	cut := strings.IndexAny(line, "\n,")
	if cut < 0 || !b.isLabel(line[:cut]) {
		return miss()
	}
	value := lines.Rows(line[cut+1:])[0]
	return matchNumeric(b, line, value)
}

func (b BlockLabel) isLabel(head string) bool {
	head = lines.Fold(head)
	for _, label := range b.Labels {
		if head == lines.Fold(label) {
			return true
		}
	}
	return false
}

// AdjacentLabel matches a line that is only a label ("Fecha:") followed by
// a line holding the value.
type AdjacentLabel struct {
	Labels []string
}

// Name implements Strategy.
func (a AdjacentLabel) Name() string { return "adjacent label" }

// Match implements Strategy.
func (a AdjacentLabel) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	if i+1 >= len(seq) || !BlockLabel(a).isLabel(seq[i]) {
		return miss()
	}
	return matchNumeric(a, seq[i+1], seq[i+1])
}

// matchNumeric reads the leading numeric date of value. A value without a
// numeric date is not a match; one with an impossible date is an error.
func matchNumeric(s Strategy, line, value string) (time.Time, bool, error) {
	if !hasNumericToken(value) {
		return miss()
	}
	date, err := ParseNumeric(value)
	if err != nil {
		return fail(s, line, err)
	}
	return found(date)
}

var periodRange = regexp.MustCompile(`(\d{1,2}) al (\d{1,2}) (?:de |d['’])?(\p{L}+) de (\d{2,4})`)

// PeriodPhrase reads "Període de l'1 al 31 Desembre de 2017" style lines.
// Once Prefix matches, the rest must parse; the end day is returned.
type PeriodPhrase struct {
	Prefix string
	Langs  []Language
}

// Name implements Strategy.
func (p PeriodPhrase) Name() string { return "period" }

// Match implements Strategy.
func (p PeriodPhrase) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	line := seq[i]
	if !strings.HasPrefix(line, p.Prefix) {
		return miss()
	}
	m := periodRange.FindStringSubmatch(line[len(p.Prefix):])
	if m == nil {
		return fail(p, line, fmt.Errorf("%w: unrecognised period", ErrInvalidDate))
	}
	month, ok := LookupMonth(m[3], p.Langs...)
	if !ok {
		return fail(p, line, fmt.Errorf("%w: unknown month %q", ErrInvalidDate, m[3]))
	}
	day, _ := strconv.Atoi(m[2])
	date, err := Validate(expandYear(m[4]), month, day)
	if err != nil {
		return fail(p, line, err)
	}
	return found(date)
}

var (
	dayToken  = regexp.MustCompile(`^\d{1,2}$`)
	yearToken = regexp.MustCompile(`^\d{4}$`)
	wordToken = regexp.MustCompile(`^\p{L}+$`)
)

// Stacked reads a date spread over five consecutive blocks:
// "16", "de", "gener", "de", "2018".
type Stacked struct {
	Connector string
	Langs     []Language
}

// Name implements Strategy.
func (s Stacked) Name() string { return "stacked" }

// Match implements Strategy.
func (s Stacked) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	w, ok := seq.Window(i, 5)
	if !ok || strings.TrimSpace(w[1]) != s.Connector || strings.TrimSpace(w[3]) != s.Connector {
		return miss()
	}
	day, name, year := strings.TrimSpace(w[0]), strings.TrimSpace(w[2]), strings.TrimSpace(w[4])
	if !dayToken.MatchString(day) || !yearToken.MatchString(year) {
		return miss()
	}
	month, ok := LookupMonth(name, s.Langs...)
	if !ok {
		return fail(s, strings.Join(w, " "), fmt.Errorf("%w: unknown month %q", ErrInvalidDate, name))
	}
	return partsDate(s, strings.Join(w, " "), year, month, day)
}

// StackedShort reads a date spread over three consecutive blocks:
// "16", "gener", "2018". The middle block must be a known month.
type StackedShort struct {
	Langs []Language
}

// Name implements Strategy.
func (s StackedShort) Name() string { return "stacked short" }

// Match implements Strategy.
func (s StackedShort) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	w, ok := seq.Window(i, 3)
	if !ok {
		return miss()
	}
	day, name, year := strings.TrimSpace(w[0]), strings.TrimSpace(w[1]), strings.TrimSpace(w[2])
	if !dayToken.MatchString(day) || !wordToken.MatchString(name) || !yearToken.MatchString(year) {
		return miss()
	}
	month, ok := LookupMonth(name, s.Langs...)
	if !ok {
		return miss()
	}
	return partsDate(s, strings.Join(w, " "), year, month, day)
}

func partsDate(s Strategy, line, year string, month time.Month, day string) (time.Time, bool, error) {
	y, _ := strconv.Atoi(year)
	d, _ := strconv.Atoi(day)
	date, err := Validate(y, month, d)
	if err != nil {
		return fail(s, line, err)
	}
	return found(date)
}

var monthHeading = regexp.MustCompile(`^(\p{L}+) de (\d{4})\n`)

// MonthHeading reads a block headed by "Marzo de 2019"; the first of the
// month is returned.
type MonthHeading struct {
	Langs []Language
}

// Name implements Strategy.
func (h MonthHeading) Name() string { return "month heading" }

// Match implements Strategy.
func (h MonthHeading) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	m := monthHeading.FindStringSubmatch(seq[i])
	if m == nil {
		return miss()
	}
	month, ok := LookupMonth(m[1], h.Langs...)
	if !ok {
		return miss()
	}
	return partsDate(h, seq[i], m[2], month, "1")
}

var ordinalDay = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th|r|er|a|o|º|ª)?$`)

// phraseFillers are dropped before a fragment is handed to dateparse.
var phraseFillers = map[string]bool{"de": true, "del": true, "of": true, "the": true}

// Phrase is the last-resort reader for free text containing a connector
// ("16 de gener de 2018", "1r de març del 2018", "3rd of March 2019").
// Month names in Langs are translated to English, connectors and ordinal
// suffixes are dropped, and the shortest fragment around the month that
// holds a day and a trailing year is parsed by dateparse.
type Phrase struct {
	Connectors []string
	Langs      []Language
}

// Name implements Strategy.
func (p Phrase) Name() string { return "phrase" }

// Match implements Strategy.
func (p Phrase) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	line := seq[i]
	if !p.hasConnector(line) {
		return miss()
	}
	words := p.translate(line)
	for k, w := range words {
		if !w.month {
			continue
		}
		t, tried, err := parseAround(words, k)
		if !tried {
			continue
		}
		if err != nil {
			return fail(p, line, fmt.Errorf("%w: %v", ErrInvalidDate, err))
		}
		date, err := validateTime(t)
		if err != nil {
			return fail(p, line, err)
		}
		return found(date)
	}
	return miss()
}

type phraseWord struct {
	text  string
	month bool
	day   bool
	year  bool
}

// translate turns line into English-ready words.
func (p Phrase) translate(line string) []phraseWord {
	fields := strings.Fields(line)
	words := make([]phraseWord, 0, len(fields))
	for _, f := range fields {
		core := strings.TrimRight(strings.TrimLeft(f, "(\"'"), ".,;:)\"'")
		comma := ""
		if strings.HasSuffix(strings.TrimRight(f, ".;:)\"'"), ",") {
			comma = ","
		}
		folded := lines.Fold(core)
		if phraseFillers[folded] || p.isConnector(folded) {
			continue
		}
		if m, ok := LookupMonth(core, p.Langs...); ok {
			words = append(words, phraseWord{text: m.String() + comma, month: true})
			continue
		}
		if d := ordinalDay.FindStringSubmatch(folded); d != nil {
			words = append(words, phraseWord{text: d[1] + comma, day: true})
			continue
		}
		if len(core) == 4 && isDigits(core) {
			words = append(words, phraseWord{text: core + comma, year: true})
			continue
		}
		words = append(words, phraseWord{text: f})
	}
	return words
}

// parseAround tries the fragments around words[k] that end in a year and
// contain a day, shortest first. tried is false when there is none.
func parseAround(words []phraseWord, k int) (t time.Time, tried bool, err error) {
	for size := 3; size <= 5; size++ {
		for a := max(0, k-size+2); a <= k; a++ {
			b := a + size
			if b > len(words) || b-1 == k || !words[b-1].year || !hasDay(words[a:b-1]) {
				continue
			}
			parts := make([]string, 0, size)
			for _, w := range words[a:b] {
				parts = append(parts, w.text)
			}
			tried = true
			t, err = dateparse.ParseIn(strings.TrimSuffix(strings.Join(parts, " "), ","), time.UTC)
			if err == nil {
				return t, true, nil
			}
		}
	}
	return time.Time{}, tried, err
}

func hasDay(words []phraseWord) bool {
	for _, w := range words {
		if w.day {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (p Phrase) isConnector(folded string) bool {
	for _, c := range p.Connectors {
		if folded == c {
			return true
		}
	}
	return false
}

func (p Phrase) hasConnector(line string) bool {
	for _, c := range p.Connectors {
		if strings.Contains(line, " "+c+" ") {
			return true
		}
	}
	return false
}

// Regexp matches a pattern with a named "date" group and hands the group to
// Parse. It covers the inline ranges of statements ("5 Mar 2018 - 24 Apr
// 2018"), where the pattern captures the end date.
type Regexp struct {
	Label   string
	Pattern *regexp.Regexp
	Parse   func(string) (time.Time, error)
}

// Name implements Strategy.
func (r Regexp) Name() string { return r.Label }

// Match implements Strategy.
func (r Regexp) Match(seq lines.Sequence, i int) (time.Time, bool, error) {
	m := r.Pattern.FindStringSubmatch(seq[i])
	if m == nil {
		return miss()
	}
	idx := r.Pattern.SubexpIndex("date")
	if idx < 0 {
		return fail(r, seq[i], fmt.Errorf("%w: pattern has no date group", ErrInvalidDate))
	}
	date, err := r.Parse(m[idx])
	if err != nil {
		return fail(r, seq[i], err)
	}
	return found(date)
}

// Range builds a Regexp strategy for an inline period, parsed as a British date.
func Range(pattern string) Regexp {
	return Regexp{Label: "range", Pattern: regexp.MustCompile(pattern), Parse: ParseGB}
}
