package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/luzene"
	"github.com/gnoswap-labs/luzene/internal"
	tt "github.com/gnoswap-labs/luzene/internal/types"
	"github.com/gnoswap-labs/luzene/scanner"
)

// DefaultConfigPath is the configuration file looked up when no path is
// given.
const DefaultConfigPath = ".luzene.yaml"

// ErrNoConfig is returned by LoadConfig when the configuration file does
// not exist. The returned Config holds the defaults.
var ErrNoConfig = errors.New("configuration file not found")

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
	Extensions() []string
}

// Config represents the overall configuration with a name and a set of rules.
// It is read from YAML, or from TOML when the file name ends in ".toml".
type Config struct {
	Name                  string                   `yaml:"name" toml:"name"`
	Extensions            []string                 `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	PreserveRangeBrackets bool                     `yaml:"preserve_range_brackets" toml:"preserve_range_brackets"`
	CacheDir              string                   `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	Rules                 map[string]tt.ConfigRule `yaml:"rules" toml:"rules"`

	// Path is the file the configuration was read from, empty for the
	// defaults.
	Path string `yaml:"-" toml:"-"`
}

// DefaultConfig lists every rule at its default severity.
func DefaultConfig() Config {
	return Config{
		Name:       "luzene",
		Extensions: append([]string(nil), internal.DefaultExtensions...),
		Rules:      internal.DefaultRules(),
	}
}

// QueryOptions returns the query options the configuration asks for.
func (c Config) QueryOptions() []luzene.Option {
	return []luzene.Option{luzene.WithPreserveRangeBrackets(c.PreserveRangeBrackets)}
}

// LoadConfig reads the configuration at path, DefaultConfigPath when path
// is empty.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	config, err := parseConfigurationFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), fmt.Errorf("%w: %s", ErrNoConfig, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("error reading configuration %s: %w", path, err)
	}
	return config, nil
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if isTOML(configurationPath) {
		md, err := toml.NewDecoder(f).Decode(&config)
		if err != nil {
			return config, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return config, fmt.Errorf("unknown configuration keys: %v", undecoded)
		}
	} else {
		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)
		// an empty file is a valid configuration
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return config, err
		}
	}
	if len(config.Extensions) == 0 {
		config.Extensions = append([]string(nil), internal.DefaultExtensions...)
	}
	config.Path = configurationPath
	return config, nil
}

// MarshalConfig encodes config in the format path calls for.
func MarshalConfig(config Config, path string) ([]byte, error) {
	if !isTOML(path) {
		return yaml.Marshal(config)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// New builds a lint engine from the configuration file. A missing file
// means the defaults.
func New(configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil && !errors.Is(err, ErrNoConfig) {
		return nil, err
	}
	if logger != nil && err != nil {
		logger.Debug("using default configuration", zap.Error(err))
	}
	return NewWithConfig(config, logger)
}

// NewWithConfig builds a lint engine from config.
func NewWithConfig(config Config, logger *zap.Logger) (*internal.Engine, error) {
	opts := []internal.EngineOption{
		internal.WithLogger(logger),
		internal.WithExtensions(config.Extensions...),
		internal.WithQueryOptions(config.QueryOptions()...),
	}
	if config.CacheDir != "" {
		var dependencies []string
		if config.Path != "" {
			dependencies = append(dependencies, config.Path)
		}
		cache, err := internal.NewCache(config.CacheDir, dependencies...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, internal.WithCache(cache))
	}
	return internal.NewEngine(config.Rules, opts...)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allIssues, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

type fileResult struct {
	path   string
	issues []tt.Issue
	err    error
}

// ProcessPath lints a single file, or every query file below a directory
// with a bounded number of workers. Files that fail are logged and
// skipped. On cancellation the issues collected so far are returned with
// the context error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		// an explicit file is linted whatever its extension
		return processor(engine, path)
	}

	files, err := scanner.New(path, engine.Extensions()...).Paths()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	results := make(chan fileResult, len(files))

	started := 0
	issues := []tt.Issue{}
	var ctxErr error

loop:
	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break loop
		case sem <- struct{}{}:
		}

		started++
		go func(fp string) {
			defer func() { <-sem }()
			fileIssues, err := processor(engine, fp)
			results <- fileResult{path: fp, issues: fileIssues, err: err}
		}(filePath)
	}

	for range started {
		r := <-results
		_ = bar.Add(1)
		if r.err != nil {
			if logger != nil {
				logger.Error("Error processing file", zap.String("file", r.path), zap.Error(r.err))
			}
			continue
		}
		issues = append(issues, r.issues...)
	}
	_ = bar.Finish()

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Filename != issues[j].Filename {
			return issues[i].Filename < issues[j].Filename
		}
		return issues[i].Start.Line < issues[j].Start.Line
	})
	return issues, ctxErr
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}
