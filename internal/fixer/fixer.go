package fixer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gnoswap-labs/luzene"
	tt "github.com/gnoswap-labs/luzene/internal/types"
)

// FixableRule is the rule whose suggestions the fixer applies.
const FixableRule = "non-canonical"

type Fixer struct {
	DryRun bool
	Out    io.Writer
	opts   []luzene.Option
}

// New returns a Fixer. opts must match the options the issues were found
// with, so that suggestions can be checked.
func New(dryRun bool, opts ...luzene.Option) *Fixer {
	return &Fixer{
		DryRun: dryRun,
		Out:    os.Stdout,
		opts:   opts,
	}
}

// Fix replaces every query of filename that has a non-canonical issue with
// the suggested canonical form. Issues of other files and other rules are
// ignored. It returns the number of lines changed, or that would change in
// dry-run mode.
func (f *Fixer) Fix(filename string, issues []tt.Issue) (int, error) {
	fixable := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Rule == FixableRule && issue.Filename == filename && issue.Suggestion != "" {
			fixable = append(fixable, issue)
		}
	}
	if len(fixable) == 0 {
		return 0, nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	sort.Slice(fixable, func(i, j int) bool {
		return fixable[i].Start.Line < fixable[j].Start.Line
	})

	lines := strings.Split(string(content), "\n")
	fixed := 0
	for _, issue := range fixable {
		idx := issue.Start.Line - 1
		if idx < 0 || idx >= len(lines) {
			return fixed, fmt.Errorf("line %d out of range in %s", issue.Start.Line, filename)
		}

		line := strings.TrimSuffix(lines[idx], "\r")
		if strings.TrimSpace(line) != issue.Query {
			return fixed, fmt.Errorf("%w: %s:%d", ErrStale, filename, issue.Start.Line)
		}
		if err := CheckSuggestion(issue.Suggestion, f.opts...); err != nil {
			return fixed, fmt.Errorf("%s:%d: %w", filename, issue.Start.Line, err)
		}

		if f.DryRun {
			fmt.Fprintf(f.Out, "Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			fmt.Fprintf(f.Out, "Suggestion:\n%s\n", issue.Suggestion)
			fixed++
			continue
		}

		replaced := extractIndent(line) + issue.Suggestion
		if strings.HasSuffix(lines[idx], "\r") {
			replaced += "\r"
		}
		lines[idx] = replaced
		fixed++
	}

	if f.DryRun {
		return fixed, nil
	}

	if err := os.WriteFile(filename, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return fixed, fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Fprintf(f.Out, "Fixed %d queries in %s\n", fixed, filename)
	return fixed, nil
}

func extractIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
