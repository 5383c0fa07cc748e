// Package filing holds the declarative rules that map a document's text to
// a classification and the static labels used to name it.
package filing

import (
	"fmt"
	"strings"

	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

// Condition is one atom of a rule's requirement.
type Condition interface {
	// Holds reports whether some line of seq satisfies the condition.
	Holds(seq lines.Sequence) bool
	String() string
}

// Literal holds when some line contains the text.
type Literal string

// Holds implements Condition.
func (l Literal) Holds(seq lines.Sequence) bool {
	return seq.Has(string(l))
}

func (l Literal) String() string {
	return fmt.Sprintf("%q", string(l))
}

// AllOf holds when a single line contains every part, in any order.
type AllOf []string

// Holds implements Condition.
func (a AllOf) Holds(seq lines.Sequence) bool {
	_, ok := seq.FindContainingAll(a...)
	return ok
}

func (a AllOf) String() string {
	quoted := make([]string, len(a))
	for i, part := range a {
		quoted[i] = fmt.Sprintf("%q", part)
	}
	return "all(" + strings.Join(quoted, ", ") + ")"
}

// All is shorthand for a conjunction of literals.
func All(parts ...string) []Condition {
	conds := make([]Condition, len(parts))
	for i, p := range parts {
		conds[i] = Literal(p)
	}
	return conds
}

// Rule classifies a document when every Required condition holds.
type Rule struct {
	Classification model.DocType
	Entity         string
	ExtraInfo      string
	Required       []Condition
}

// Applies reports whether the rule matches seq. A rule without conditions
// never applies.
func (r Rule) Applies(seq lines.Sequence) bool {
	if len(r.Required) == 0 {
		return false
	}
	for _, c := range r.Required {
		if !c.Holds(seq) {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	conds := make([]string, len(r.Required))
	for i, c := range r.Required {
		conds[i] = c.String()
	}
	return fmt.Sprintf("%s %q %q <- %s", r.Classification, r.Entity, r.ExtraInfo, strings.Join(conds, " & "))
}

// Rules is an ordered priority list.
type Rules []Rule

// First returns the earliest rule that applies to seq.
func (rs Rules) First(seq lines.Sequence) (Rule, bool) {
	for _, r := range rs {
		if r.Applies(seq) {
			return r, true
		}
	}
	return Rule{}, false
}

// Shadowed reports pairs (i, j) with i < j where rule j can never win
// because rule i requires a subset of the same literal conditions.
func (rs Rules) Shadowed() [][2]int {
	var out [][2]int
	for j := range rs {
		for i := 0; i < j; i++ {
			if subsumes(rs[i].Required, rs[j].Required) {
				out = append(out, [2]int{i, j})
				break
			}
		}
	}
	return out
}

// subsumes reports whether every condition of a appears in b.
func subsumes(a, b []Condition) bool {
	if len(a) == 0 {
		return false
	}
	have := make(map[string]bool, len(b))
	for _, c := range b {
		have[c.String()] = true
	}
	for _, c := range a {
		if !have[c.String()] {
			return false
		}
	}
	return true
}
