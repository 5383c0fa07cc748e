package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidStatus = errors.New("invalid document status")
	ErrInvalidRecord = errors.New("invalid document record")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateStatus(status Status) error {
	switch status {
	case StatusClassified, StatusUnclassified, StatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

func validateRecord(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: nil", ErrInvalidRecord)
	}
	if strings.TrimSpace(rec.Path) == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidRecord)
	}
	if rec.Hash == "" {
		return fmt.Errorf("%w: missing hash", ErrInvalidRecord)
	}
	if err := validateStatus(rec.Status); err != nil {
		return err
	}
	if rec.PeriodEnd != nil && rec.PeriodEnd.Before(rec.PeriodStart) {
		return fmt.Errorf("%w: period ends before it starts", ErrInvalidRecord)
	}
	return nil
}
