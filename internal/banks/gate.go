package banks

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"

	"github.com/Veraticus/docket/internal/lines"
)

// blockSeparator keeps needles from matching across two lines.
const blockSeparator = "\x00"

// Gate is a disjunction of issuer-identifying substrings, checked in a single
// pass over the document.
type Gate struct {
	matcher *ahocorasick.Matcher
	needles []string
	mu      sync.Mutex // Match mutates matcher state
}

// NewGate builds a gate that opens when any needle is present.
func NewGate(needles ...string) *Gate {
	g := &Gate{needles: needles}
	if len(needles) > 0 {
		g.matcher = ahocorasick.NewStringMatcher(needles)
	}
	return g
}

// Open reports whether any line of seq contains a needle.
func (g *Gate) Open(seq lines.Sequence) bool {
	return len(g.Matches(seq)) > 0
}

// Matches returns the needles found in seq, in declaration order.
func (g *Gate) Matches(seq lines.Sequence) []string {
	if g.matcher == nil || len(seq) == 0 {
		return nil
	}
	text := []byte(strings.Join(seq, blockSeparator))

	g.mu.Lock()
	hits := g.matcher.Match(text)
	g.mu.Unlock()

	if len(hits) == 0 {
		return nil
	}
	found := make(map[int]bool, len(hits))
	for _, idx := range hits {
		found[idx] = true
	}
	out := make([]string, 0, len(found))
	for i, needle := range g.needles {
		if found[i] {
			out = append(out, needle)
		}
	}
	return out
}

// Needles returns the gate's substrings.
func (g *Gate) Needles() []string {
	return append([]string(nil), g.needles...)
}
