package banks

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedTemplate is returned when a document passes an issuer's
	// gate but no rule or special case recognises it.
	ErrUnrecognizedTemplate = errors.New("document belongs to issuer but its template is not recognised")
	// ErrMissingAnchor is returned when a special case is missing a required field.
	ErrMissingAnchor = errors.New("required anchor not found")
	// ErrMissingDate is returned when a matched template has no date.
	ErrMissingDate = errors.New("matched template has no date")
)

// AnchorError names the special case and the label it could not find.
type AnchorError struct {
	Case   string
	Anchor string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("%s: %v: %q", e.Case, ErrMissingAnchor, e.Anchor)
}

func (e *AnchorError) Unwrap() error {
	return ErrMissingAnchor
}
