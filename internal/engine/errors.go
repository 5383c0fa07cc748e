package engine

import (
	"errors"
	"fmt"

	"github.com/Veraticus/docket/internal/banks"
	"github.com/Veraticus/docket/internal/dates"
	"github.com/Veraticus/docket/internal/model"
)

// ClassificationError reports a document that belongs to a known bank but
// could not be classified. Diagnostic is the anchor or line at fault.
type ClassificationError struct {
	Err        error
	DocumentID string
	Bank       model.Bank
	Diagnostic string
}

func (e *ClassificationError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("classify %s as %s: %v (at %q)", e.DocumentID, e.Bank, e.Err, e.Diagnostic)
	}
	return fmt.Sprintf("classify %s as %s: %v", e.DocumentID, e.Bank, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

func newClassificationError(docID string, bank model.Bank, err error) *ClassificationError {
	return &ClassificationError{
		DocumentID: docID,
		Bank:       bank,
		Diagnostic: diagnose(err),
		Err:        err,
	}
}

func diagnose(err error) string {
	var anchorErr *banks.AnchorError
	if errors.As(err, &anchorErr) {
		return anchorErr.Anchor
	}
	var dateErr *dates.DateError
	if errors.As(err, &dateErr) {
		return dateErr.Line
	}
	return ""
}
