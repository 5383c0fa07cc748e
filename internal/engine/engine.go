// Package engine orchestrates document classification: it runs every
// registered bank classifier in priority order and normalizes the winner.
package engine

import (
	"github.com/Veraticus/docket/internal/banks"
	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
	"github.com/Veraticus/docket/internal/normalize"
)

// Engine classifies documents. It holds only read-only tables and is safe
// for concurrent use.
type Engine struct {
	registry   banks.Registry
	normalizer normalize.Normalizer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in bank classifiers.
func WithRegistry(r banks.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithNormalizer replaces the built-in name adjustments.
func WithNormalizer(n normalize.Normalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// New creates an engine with the default registry and adjustments.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:   banks.Default(),
		normalizer: normalize.Defaults(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the classifiers in the order they are tried.
func (e *Engine) Registry() banks.Registry {
	return e.registry
}

// Classify returns the metadata of the document identified by docID. A
// document no bank recognises yields the unclassified sentinel and a nil
// error. A document whose gate passed but could not be parsed yields a
// *ClassificationError.
func (e *Engine) Classify(docID string, seq lines.Sequence) (model.DocumentMetadata, error) {
	for _, c := range e.registry {
		if !c.Gate(seq) {
			continue
		}

		md, err := c.Classify(seq)
		if err != nil {
			return model.DocumentMetadata{}, newClassificationError(docID, c.Bank(), err)
		}

		adjusted := e.normalizer.Apply(&md)
		common.LogDebug("Document classified", common.Fields{
			"document":       docID,
			"bank":           md.Bank,
			"classification": md.Classification,
			"entity":         md.Entity,
			"adjustment":     adjusted,
		})
		return md, nil
	}

	common.LogDebug("No issuer recognised document", common.Fields{"document": docID, "lines": len(seq)})
	return model.Unclassified(), nil
}
