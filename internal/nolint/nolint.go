package nolint

import (
	"fmt"
	"go/token"
	"strings"
)

const (
	commentPrefix = "#"
	nolintPrefix  = "nolint"
)

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// IsComment reports whether a query file line is a comment.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commentPrefix)
}

// Parse collects the nolint directives of a query file. A directive covers
// the directive line itself and the next query line.
func Parse(filename string, lines []string) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope),
	}

	for i, line := range lines {
		if !IsComment(line) {
			continue
		}
		rules, err := parseDirective(line)
		if err != nil {
			// ignore ordinary comments and malformed directives
			continue
		}
		// lines are 1-based
		ns := nolintScope{rules: rules, start: i + 1, end: i + 1}
		if next := nextQueryLine(lines, i+1); next >= 0 {
			ns.end = next + 1
		}
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return &manager
}

// parseDirective parses "# nolint" or "# nolint:rule-a,rule-b".
func parseDirective(line string) (map[string]struct{}, error) {
	text := strings.TrimSpace(line)
	text = strings.TrimSpace(strings.TrimPrefix(text, commentPrefix))

	if !strings.HasPrefix(text, nolintPrefix) {
		return nil, fmt.Errorf("not a nolint directive")
	}
	rest := text[len(nolintPrefix):]

	// A directive either lists rules after a colon (:) or applies to all
	// rules.
	if rest != "" && rest[0] != ':' {
		return nil, fmt.Errorf("invalid nolint directive format")
	}
	if rest != "" {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return nil, fmt.Errorf("invalid nolint directive: no rules specified after colon")
		}
	}
	return parseIgnoreRuleNames(rest), nil
}

// parseIgnoreRuleNames parses the rule list from the nolint directive.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// nextQueryLine returns the index of the first line at or after from that
// holds a query, or -1. A blank line ends the search.
func nextQueryLine(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			return -1
		case IsComment(lines[i]):
			continue
		default:
			return i
		}
	}
	return -1
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start || pos.Line > ns.end {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
