package internal

import (
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene"
	"github.com/gnoswap-labs/luzene/internal/nolint"
	"github.com/gnoswap-labs/luzene/internal/trie"
	tt "github.com/gnoswap-labs/luzene/internal/types"
)

// ErrUnknownRule is returned for configuration entries naming no rule.
var ErrUnknownRule = errors.New("unknown rule")

// DefaultExtensions are the query file extensions linted by default.
var DefaultExtensions = []string{".lucene", ".query"}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. Queries log through it as well.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithQueryOptions sets the options every query is built with.
func WithQueryOptions(opts ...luzene.Option) EngineOption {
	return func(e *Engine) {
		e.queryOpts = append(e.queryOpts, opts...)
	}
}

// WithExtensions sets the extensions of the files to lint in directories.
func WithExtensions(extensions ...string) EngineOption {
	return func(e *Engine) {
		if len(extensions) > 0 {
			e.extensions = slices.Clone(extensions)
		}
	}
}

// WithCache reuses the issues of files whose content did not change.
func WithCache(cache *Cache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// Engine manages the linting process.
// Configure it before the first Run; Run itself may be called from
// several goroutines.
type Engine struct {
	ignoredRules map[string]bool
	ignoredDirs  trie.PathSet
	ignoredGlobs []string
	extensions   []string
	rules        map[string]LintRule
	queryOpts    []luzene.Option
	logger       *zap.Logger
	cache        *Cache
}

// NewEngine creates a new lint engine. rules overrides the default
// severities; a rule set to OFF is never run.
func NewEngine(rules map[string]tt.ConfigRule, opts ...EngineOption) (*Engine, error) {
	engine := &Engine{
		logger:     zap.NewNop(),
		extensions: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.queryOpts = append([]luzene.Option{luzene.WithLogger(engine.logger)}, engine.queryOpts...)
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]LintRule, len(allRuleConstructors))
	for key, newRuleCstr := range allRuleConstructors {
		e.rules[key] = newRuleCstr()
	}

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			return fmt.Errorf("%w: %s", ErrUnknownRule, key)
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
	}
	return nil
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// Run applies all lint rules to the queries of the given file.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		e.logger.Debug("skipping ignored path", zap.String("file", filename))
		return nil, nil
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			return issues, nil
		}
	}

	src, err := ReadSourceCode(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	issues := e.run(filename, src)

	if e.cache != nil {
		if err := e.cache.Set(filename, issues); err != nil {
			e.logger.Warn("failed to cache issues", zap.String("file", filename), zap.Error(err))
		}
	}
	return issues, nil
}

// RunSource applies all lint rules to the queries of source. Issues carry
// no filename.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run("", NewSourceCode(source)), nil
}

func (e *Engine) run(filename string, src *SourceCode) []tt.Issue {
	nolintMgr := nolint.Parse(filename, src.Lines)

	var allIssues []tt.Issue
	for _, line := range src.Queries() {
		q := luzene.New(line.Text, e.queryOpts...)
		canonical, valid := q.Parse()
		checked := &CheckedQuery{
			QueryLine: line,
			Query:     q,
			Canonical: canonical,
			Valid:     valid,
		}

		for name, rule := range e.rules {
			if e.ignoredRules[name] {
				continue
			}
			issues := rule.Check(filename, checked)
			allIssues = append(allIssues, filterNolintIssues(nolintMgr, issues)...)
		}
	}

	sort.Slice(allIssues, func(i, j int) bool {
		a, b := allIssues[i], allIssues[j]
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Rule < b.Rule
	})

	e.logger.Debug("linted query file",
		zap.String("file", filename),
		zap.Int("lines", len(src.Lines)),
		zap.Int("issues", len(allIssues)))
	return allIssues
}

// Extensions returns the extensions of the files to lint in directories.
func (e *Engine) Extensions() []string {
	return slices.Clone(e.extensions)
}

// IgnoreRule disables a rule.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files under path, or files matching path as a glob.
func (e *Engine) IgnorePath(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)
	e.ignoredDirs.Add(path)
	e.ignoredGlobs = append(e.ignoredGlobs, path)
}

func (e *Engine) isIgnoredPath(filename string) bool {
	if e.ignoredDirs.Contains(filename) {
		return true
	}
	filename = filepath.Clean(filename)
	for _, pattern := range e.ignoredGlobs {
		if ok, _ := filepath.Match(pattern, filename); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(filename)); ok {
			return true
		}
	}
	return false
}

// filterNolintIssues filters issues based on nolint directives.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil || len(issues) == 0 {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		pos := token.Position{
			Filename: issue.Filename,
			Line:     issue.Start.Line,
		}
		if !mgr.IsNolint(pos, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
