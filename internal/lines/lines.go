// Package lines provides the ordered sequence of text blocks extracted from a
// document and the containment predicates every classifier is built on.
package lines

import "strings"

// Sequence is the ordered list of text blocks of one document, all pages
// concatenated. A block spanning stacked rows keeps them joined by "\n".
// A Sequence is never modified once built.
type Sequence []string

// FindContaining returns the first line holding sub.
func (s Sequence) FindContaining(sub string) (string, bool) {
	for _, line := range s {
		if strings.Contains(line, sub) {
			return line, true
		}
	}
	return "", false
}

// FindContainingAll returns the first line holding every one of subs.
func (s Sequence) FindContainingAll(subs ...string) (string, bool) {
	if len(subs) == 0 {
		return "", false
	}
	for _, line := range s {
		if ContainsAll(line, subs...) {
			return line, true
		}
	}
	return "", false
}

// Has reports whether any line contains sub.
func (s Sequence) Has(sub string) bool {
	_, ok := s.FindContaining(sub)
	return ok
}

// HasLine reports whether some line equals text exactly.
func (s Sequence) HasLine(text string) bool {
	return s.Index(text) >= 0
}

// Index returns the position of the first line equal to text, or -1.
func (s Sequence) Index(text string) int {
	for i, line := range s {
		if line == text {
			return i
		}
	}
	return -1
}

// FindStartingWith looks for a block whose first row is prefix and returns
// its second row, e.g. "CONCEPTO DE PAGO\nIBI 2019" yields "IBI 2019".
func (s Sequence) FindStartingWith(prefix string) (string, bool) {
	for _, line := range s {
		if rest, ok := strings.CutPrefix(line, prefix+"\n"); ok {
			value, _, _ := strings.Cut(rest, "\n")
			return value, true
		}
	}
	return "", false
}

// StartsBlock reports whether some block's first row is exactly prefix.
func (s Sequence) StartsBlock(prefix string) bool {
	for _, line := range s {
		if line == prefix || strings.HasPrefix(line, prefix+"\n") {
			return true
		}
	}
	return false
}

// FindAfter returns the line immediately following the first line equal to text.
func (s Sequence) FindAfter(text string) (string, bool) {
	i := s.Index(text)
	if i < 0 || i+1 >= len(s) {
		return "", false
	}
	return s[i+1], true
}

// FindAfterContaining returns the line immediately following the first line
// holding sub.
func (s Sequence) FindAfterContaining(sub string) (string, bool) {
	for i, line := range s {
		if strings.Contains(line, sub) {
			if i+1 >= len(s) {
				return "", false
			}
			return s[i+1], true
		}
	}
	return "", false
}

// Window returns n consecutive lines starting at i, or false when the
// sequence is too short.
func (s Sequence) Window(i, n int) ([]string, bool) {
	if i < 0 || n <= 0 || i+n > len(s) {
		return nil, false
	}
	return s[i : i+n], true
}

// ContainsAll reports whether text holds every one of subs. Order is irrelevant.
func ContainsAll(text string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(text, sub) {
			return false
		}
	}
	return true
}

// Rows splits a block into its stacked rows.
func Rows(line string) []string {
	return strings.Split(line, "\n")
}
