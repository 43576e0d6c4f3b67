package fixer

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/luzene"
)

var (
	// ErrStale means the file changed since the issue was found.
	ErrStale = errors.New("query changed since it was linted")
	// ErrUnstableSuggestion means a suggestion is not itself canonical.
	ErrUnstableSuggestion = errors.New("suggestion is not canonical")
)

// CheckSuggestion makes sure a suggestion is a valid query that parses back
// to itself, so that running the fixer twice changes nothing.
func CheckSuggestion(suggestion string, opts ...luzene.Option) error {
	q := luzene.New(suggestion, opts...)
	canonical, ok := q.Parse()
	if !ok {
		return fmt.Errorf("%w: %q: %v", ErrUnstableSuggestion, suggestion, q.Errors())
	}
	if canonical != suggestion {
		return fmt.Errorf("%w: %q parses to %q", ErrUnstableSuggestion, suggestion, canonical)
	}
	return nil
}
