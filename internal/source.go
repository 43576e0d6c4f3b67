package internal

import (
	"os"
	"strings"

	"github.com/gnoswap-labs/luzene/internal/nolint"
)

// SourceCode stores the content of a query file.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits content into lines. A trailing carriage return is
// not part of a line.
func NewSourceCode(content []byte) *SourceCode {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &SourceCode{Lines: lines}
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// QueryLine is one query of a query file.
type QueryLine struct {
	Line   int // 1-based
	Offset int // byte offset of the query text, counting one byte per line break
	Indent string
	Text   string
}

// Queries returns the query lines, skipping blank and comment lines.
// Surrounding whitespace is not part of a query.
func (s *SourceCode) Queries() []QueryLine {
	var (
		queries []QueryLine
		offset  int
	)
	for i, line := range s.Lines {
		text := strings.TrimSpace(line)
		if text != "" && !nolint.IsComment(line) {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			queries = append(queries, QueryLine{
				Line:   i + 1,
				Offset: offset + len(indent),
				Indent: indent,
				Text:   text,
			})
		}
		offset += len(line) + 1
	}
	return queries
}
