package internal

import (
	"fmt"
	"go/token"
	"slices"

	"github.com/gnoswap-labs/luzene"
	tt "github.com/gnoswap-labs/luzene/internal/types"
	"github.com/gnoswap-labs/luzene/query"
)

// Rule names.
const (
	RuleNoTokens         = "no-tokens"
	RuleInvalidQuery     = "invalid-query"
	RuleDanglingBoolean  = "dangling-boolean-operator"
	RuleOrphanFieldName  = "orphan-field-name"
	RuleTruncatedInput   = "truncated-input"
	RuleNonCanonical     = "non-canonical"
	categoryValidation   = "validation"
	categoryLexing       = "lexing"
	categoryCanonicalize = "style"
)

// CheckedQuery is a query line after lexing and validation.
type CheckedQuery struct {
	QueryLine
	Query     *luzene.Query
	Canonical string
	Valid     bool
}

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on one query and returns the issues found.
	Check(filename string, q *CheckedQuery) []tt.Issue

	// Name returns the name of the lint rule.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

type ruleBase struct {
	name     string
	severity tt.Severity
}

func (r *ruleBase) Name() string                { return r.name }
func (r *ruleBase) Severity() tt.Severity       { return r.severity }
func (r *ruleBase) SetSeverity(sev tt.Severity) { r.severity = sev }
func (r *ruleBase) issue(filename string, q *CheckedQuery) tt.Issue {
	return tt.Issue{
		Rule:     r.name,
		Filename: filename,
		Query:    q.Text,
		Start:    q.position(filename, 0),
		End:      q.position(filename, len(q.Text)-1),
		Severity: r.severity,
	}
}

// position returns the location of byte i of the query text.
func (q *CheckedQuery) position(filename string, i int) token.Position {
	if i < 0 {
		i = 0
	}
	return token.Position{
		Filename: filename,
		Offset:   q.Offset + i,
		Line:     q.Line,
		Column:   len(q.Indent) + i + 1,
	}
}

// ValidatorRule reports one of the validator's structural errors.
type ValidatorRule struct {
	ruleBase
	message string
}

func newValidatorRule(name, message string) func() LintRule {
	return func() LintRule {
		return &ValidatorRule{
			ruleBase: ruleBase{name: name, severity: tt.SeverityError},
			message:  message,
		}
	}
}

func (r *ValidatorRule) Check(filename string, q *CheckedQuery) []tt.Issue {
	if q.Valid || !slices.Contains(q.Query.Errors(), r.message) {
		return nil
	}
	issue := r.issue(filename, q)
	issue.Category = categoryValidation
	issue.Message = r.message
	return []tt.Issue{issue}
}

// TruncatedInputRule reports text the lexer could not tokenize.
type TruncatedInputRule struct {
	ruleBase
}

func NewTruncatedInputRule() LintRule {
	return &TruncatedInputRule{ruleBase{name: RuleTruncatedInput, severity: tt.SeverityWarning}}
}

func (r *TruncatedInputRule) Check(filename string, q *CheckedQuery) []tt.Issue {
	if !q.Query.Truncated() {
		return nil
	}

	issue := r.issue(filename, q)
	issue.Category = categoryLexing
	issue.Message = "lexing stopped early, the rest of the query is ignored"
	if at := q.Query.TruncatedAt(); at >= 0 {
		issue.Start = q.position(filename, at)
		issue.Message = fmt.Sprintf("no token matches at column %d, the rest of the query is ignored", issue.Start.Column)
	} else {
		issue.Note = "lexing stopped inside a group or range"
	}
	return []tt.Issue{issue}
}

// NonCanonicalRule reports valid queries that differ from their canonical
// form and suggests the canonical text.
type NonCanonicalRule struct {
	ruleBase
}

func NewNonCanonicalRule() LintRule {
	return &NonCanonicalRule{ruleBase{name: RuleNonCanonical, severity: tt.SeverityInfo}}
}

func (r *NonCanonicalRule) Check(filename string, q *CheckedQuery) []tt.Issue {
	if !q.Valid || q.Canonical == q.Text {
		return nil
	}
	issue := r.issue(filename, q)
	issue.Category = categoryCanonicalize
	issue.Message = "query is not in canonical form"
	issue.Suggestion = q.Canonical
	return []tt.Issue{issue}
}

type ruleConstructor func() LintRule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	RuleNoTokens:        newValidatorRule(RuleNoTokens, query.ErrNoTokens),
	RuleInvalidQuery:    newValidatorRule(RuleInvalidQuery, query.ErrInvalidQuery),
	RuleDanglingBoolean: newValidatorRule(RuleDanglingBoolean, query.ErrDanglingBoolean),
	RuleOrphanFieldName: newValidatorRule(RuleOrphanFieldName, query.ErrOrphanFieldName),
	RuleTruncatedInput:  NewTruncatedInputRule,
	RuleNonCanonical:    NewNonCanonicalRule,
}

// DefaultRules returns every rule with its default severity.
func DefaultRules() map[string]tt.ConfigRule {
	rules := make(map[string]tt.ConfigRule, len(allRuleConstructors))
	for name, newRule := range allRuleConstructors {
		rules[name] = tt.ConfigRule{Severity: newRule().Severity()}
	}
	return rules
}
