// Package banks implements one classifier per issuing bank. Each classifier
// owns a gate, an ordered rule table, a date grammar and the special-case
// extractors for templates no rule can express.
package banks

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/docket/internal/dates"
	"github.com/Veraticus/docket/internal/filing"
	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

// Classifier decides whether a document belongs to one bank and classifies it.
type Classifier interface {
	Bank() model.Bank
	// Gate reports whether the document could come from this bank. It never fails.
	Gate(seq lines.Sequence) bool
	// Classify is only meaningful after Gate returned true. Failure to
	// recognise the template is an error, never an empty result.
	Classify(seq lines.Sequence) (model.DocumentMetadata, error)
}

// SpecialCase extracts a template too irregular for a rule. Extract
// re-derives every field itself and fails when any is missing.
type SpecialCase struct {
	Detect  func(lines.Sequence) bool
	Extract func(lines.Sequence) (model.DocumentMetadata, error)
	Name    string
}

// Issuer is the table-driven Classifier shared by every bank.
type Issuer struct {
	gate    *Gate
	bank    model.Bank
	rules   filing.Rules
	grammar dates.Grammar
	special []SpecialCase
}

// Bank implements Classifier.
func (is *Issuer) Bank() model.Bank { return is.bank }

// Gate implements Classifier.
func (is *Issuer) Gate(seq lines.Sequence) bool { return is.gate.Open(seq) }

// Rules returns the issuer's rule table in priority order.
func (is *Issuer) Rules() filing.Rules { return is.rules }

// Needles returns the gate substrings.
func (is *Issuer) Needles() []string { return is.gate.Needles() }

// SpecialCases returns the names of the special-case extractors in the order tried.
func (is *Issuer) SpecialCases() []string {
	names := make([]string, len(is.special))
	for i, sc := range is.special {
		names[i] = sc.Name
	}
	return names
}

// Classify implements Classifier. Rules are tried first, then special cases.
func (is *Issuer) Classify(seq lines.Sequence) (model.DocumentMetadata, error) {
	if rule, ok := is.rules.First(seq); ok {
		date, err := is.FindDate(seq)
		if err != nil {
			return model.DocumentMetadata{}, fmt.Errorf("%s %s/%s: %w", is.bank, rule.Classification, rule.Entity, err)
		}
		return model.DocumentMetadata{
			PeriodStart:    date,
			Bank:           is.bank,
			Classification: rule.Classification,
			Entity:         rule.Entity,
			ExtraInfo:      rule.ExtraInfo,
		}, nil
	}

	for _, sc := range is.special {
		if !sc.Detect(seq) {
			continue
		}
		md, err := sc.Extract(seq)
		if err != nil {
			return model.DocumentMetadata{}, fmt.Errorf("%s %s: %w", is.bank, sc.Name, err)
		}
		return md, nil
	}

	return model.DocumentMetadata{}, fmt.Errorf("%s: %w", is.bank, ErrUnrecognizedTemplate)
}

// FindDate runs the issuer's grammar. An absent date is ErrMissingDate.
func (is *Issuer) FindDate(seq lines.Sequence) (time.Time, error) {
	date, err := is.grammar.Find(seq)
	if errors.Is(err, dates.ErrNoDate) {
		return date, ErrMissingDate
	}
	return date, err
}

// Registry is the fixed-priority list of classifiers.
type Registry []Classifier

// Default returns the built-in classifiers in priority order.
func Default() Registry {
	return Registry{
		NewDeutsche(),
		NewSantanderUK(),
		NewCitibankUK(),
		NewFirstDirect(),
	}
}

// Lookup returns the classifier for bank.
func (r Registry) Lookup(bank model.Bank) (Classifier, bool) {
	for _, c := range r {
		if c.Bank() == bank {
			return c, true
		}
	}
	return nil, false
}
