// Package dates turns free-form date text into calendar dates.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical rendering of a normalized date.
const Layout = "2006/01/02"

// ErrUnrecognized is wrapped by every failure to interpret a date.
var ErrUnrecognized = errors.New("unrecognized date")

// ParseError reports the text that could not be interpreted.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrUnrecognized, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrUnrecognized, e.Err}
}

// Normalizer interprets date text. Month-first is assumed for ambiguous
// slash dates (01/02/2014 is January 2nd).
type Normalizer struct {
	loc *time.Location
}

// New returns a Normalizer resolving dates in UTC.
func New() *Normalizer {
	return &Normalizer{loc: time.UTC}
}

// Normalize parses text into a date. The time of day is discarded.
func (n *Normalizer) Normalize(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, &ParseError{Text: text, Err: errors.New("empty input")}
	}

	t, err := dateparse.ParseIn(trimmed, n.loc)
	if err != nil {
		return time.Time{}, &ParseError{Text: text, Err: err}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, n.loc), nil
}

// Format normalizes text and renders it with Layout.
func (n *Normalizer) Format(text string) (string, error) {
	t, err := n.Normalize(text)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}
