package query

import (
	"regexp"
	"slices"
	"strings"
)

// ReservedCharacters lists the characters that act as operators in a query
// string. The two-character operators && and || reserve & and | on their own.
var ReservedCharacters = []string{
	"+", "-", "&", "|", "!", "(", ")", "{", "}", "[", "]",
	"^", `"`, "~", "*", "?", ":", `\`, "/",
}

var defaultEscaper = NewEscaper()

// Escaper backslash-escapes a set of reserved characters.
type Escaper struct {
	reserved []string
	set      map[byte]bool
	matcher  *regexp.Regexp
}

// NewEscaper builds an escaper for ReservedCharacters minus the excluded ones.
func NewEscaper(exclude ...string) *Escaper {
	e := &Escaper{set: make(map[byte]bool)}
	quoted := make([]string, 0, len(ReservedCharacters))
	for _, c := range ReservedCharacters {
		if slices.Contains(exclude, c) {
			continue
		}
		e.reserved = append(e.reserved, c)
		e.set[c[0]] = true
		quoted = append(quoted, regexp.QuoteMeta(c))
	}
	e.matcher = regexp.MustCompile(strings.Join(quoted, "|"))
	return e
}

// Reserved returns the characters this escaper escapes.
func (e *Escaper) Reserved() []string {
	return slices.Clone(e.reserved)
}

// Matcher returns a regexp matching any single reserved character.
func (e *Escaper) Matcher() *regexp.Regexp {
	return e.matcher
}

// Escape prefixes every reserved character in s with a backslash.
// A backslash that already escapes a reserved character is left alone,
// so escaping an escaped string is a no-op.
func (e *Escaper) Escape(s string) string {
	if !e.matcher.MatchString(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && isReserved(s[i+1]) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if e.set[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Escape escapes s against the full reserved character set.
func Escape(s string) string {
	return defaultEscaper.Escape(s)
}

func isReserved(c byte) bool {
	return defaultEscaper.set[c]
}
