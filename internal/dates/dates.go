// Package dates extracts the reference date of a document from its line
// sequence. Each Strategy recognises one textual layout; a Grammar tries its
// strategies in priority order at every position of the sequence.
package dates

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/docket/internal/lines"
)

// Year bounds accepted for any extracted date.
const (
	MinYear = 1990
	MaxYear = 2100
)

var (
	// ErrNoDate is returned when no strategy recognises any line.
	ErrNoDate = errors.New("no date found")
	// ErrInvalidDate is returned when a layout matched but its value is not a valid calendar date.
	ErrInvalidDate = errors.New("invalid date")
)

// DateError reports a line that matched a known layout but could not be
// turned into a valid date.
type DateError struct {
	Err      error
	Strategy string
	Line     string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %v in line %q", e.Strategy, e.Err, e.Line)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// Strategy recognises one date layout at a position of a sequence.
type Strategy interface {
	// Name identifies the layout in errors.
	Name() string
	// Match inspects seq at position i. ok is false when the layout does not
	// fit there. A non-nil error means the layout fits but the value is invalid.
	Match(seq lines.Sequence, i int) (date time.Time, ok bool, err error)
}

// Grammar is an ordered list of strategies.
type Grammar []Strategy

// Find walks the sequence in order and, at each line, tries every strategy
// in priority order. The first date found wins. A structural match with an
// invalid value aborts the search.
func (g Grammar) Find(seq lines.Sequence) (time.Time, error) {
	for i := range seq {
		for _, s := range g {
			date, ok, err := s.Match(seq, i)
			if err != nil {
				return time.Time{}, err
			}
			if ok {
				return date, nil
			}
		}
	}
	return time.Time{}, ErrNoDate
}

// Validate builds a date from its parts, rejecting days, months and years
// outside their ranges as well as days the month does not have.
func Validate(year int, month time.Month, day int) (time.Time, error) {
	if year < MinYear || year > MaxYear {
		return time.Time{}, fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidDate, year, MinYear, MaxYear)
	}
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: day %d", ErrInvalidDate, day)
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %s has no day %d", ErrInvalidDate, month, day)
	}
	return date, nil
}

// validateTime applies the year bounds to a date produced by a parser.
func validateTime(t time.Time) (time.Time, error) {
	return Validate(t.Year(), t.Month(), t.Day())
}

func fail(s Strategy, line string, err error) (time.Time, bool, error) {
	return time.Time{}, true, &DateError{Strategy: s.Name(), Line: line, Err: err}
}

func found(t time.Time) (time.Time, bool, error) {
	return t, true, nil
}

func miss() (time.Time, bool, error) {
	return time.Time{}, false, nil
}
