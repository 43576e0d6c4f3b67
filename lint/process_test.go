package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/luzene/internal"
	tt "github.com/gnoswap-labs/luzene/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".luzene.yaml")
	writeFile(t, path, `name: catalog
extensions: [".lq"]
preserve_range_brackets: true
rules:
  non-canonical:
    severity: OFF
  truncated-input:
    severity: ERROR
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "catalog", config.Name)
	assert.Equal(t, []string{".lq"}, config.Extensions)
	assert.True(t, config.PreserveRangeBrackets)
	assert.Equal(t, tt.SeverityOff, config.Rules[internal.RuleNonCanonical].Severity)
	assert.Equal(t, tt.SeverityError, config.Rules[internal.RuleTruncatedInput].Severity)
	assert.Equal(t, path, config.Path)
}

func TestLoadConfig_TOML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "luzene.toml")
	writeFile(t, path, `name = "catalog"
preserve_range_brackets = true

[rules.non-canonical]
severity = "OFF"

[rules.dangling-boolean-operator]
severity = "warning"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "catalog", config.Name)
	assert.Equal(t, internal.DefaultExtensions, config.Extensions)
	assert.True(t, config.PreserveRangeBrackets)
	assert.Equal(t, tt.SeverityOff, config.Rules[internal.RuleNonCanonical].Severity)
	assert.Equal(t, tt.SeverityWarning, config.Rules[internal.RuleDanglingBoolean].Severity)

	unknown := filepath.Join(dir, "unknown.toml")
	writeFile(t, unknown, "colour = \"blue\"\n")
	_, err = LoadConfig(unknown)
	assert.ErrorContains(t, err, "unknown configuration keys")
}

func TestMarshalConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	config := DefaultConfig()
	config.CacheDir = ".cache"

	for _, name := range []string{"luzene.yaml", "luzene.toml"} {
		path := filepath.Join(dir, name)
		d, err := MarshalConfig(config, path)
		require.NoError(t, err)
		writeFile(t, path, string(d))

		loaded, err := LoadConfig(path)
		require.NoError(t, err, name)
		loaded.Path = ""
		assert.Equal(t, config, loaded, name)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Parallel()
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrNoConfig)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	unknownKey := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknownKey, "name: x\ncolour: blue\n")
	_, err := LoadConfig(unknownKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoConfig)

	badSeverity := filepath.Join(dir, "severity.yaml")
	writeFile(t, badSeverity, "rules:\n  non-canonical:\n    severity: LOUD\n")
	_, err = LoadConfig(badSeverity)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	writeFile(t, empty, "")
	config, err := LoadConfig(empty)
	require.NoError(t, err)
	assert.Equal(t, internal.DefaultExtensions, config.Extensions)
}

func TestNew(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	engine, err := New(filepath.Join(dir, "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, internal.DefaultExtensions, engine.Extensions())

	path := filepath.Join(dir, "unknown-rule.yaml")
	writeFile(t, path, "rules:\n  no-such-rule:\n    severity: INFO\n")
	_, err = New(path, nil)
	assert.ErrorIs(t, err, internal.ErrUnknownRule)
}

func TestProcessPath_Engine(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lucene"), "bird\n{1 .. 5}\n")
	writeFile(t, filepath.Join(dir, "nested", "b.query"), "# nolint:non-canonical\ndinosaur!\npony &&\n")
	writeFile(t, filepath.Join(dir, "c.txt"), "pony &&\n")

	engine, err := NewWithConfig(DefaultConfig(), nil)
	require.NoError(t, err)

	issues, err := ProcessFiles(context.Background(), nil, engine, []string{dir}, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, internal.RuleNonCanonical, issues[0].Rule)
	assert.Equal(t, "[1 TO 5]", issues[0].Suggestion)
	assert.Equal(t, internal.RuleDanglingBoolean, issues[1].Rule)
	assert.Equal(t, 3, issues[1].Start.Line)
}

func TestProcessPath_PreserveRangeBrackets(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lucene"), "{1 .. 5}\n")

	config := DefaultConfig()
	config.PreserveRangeBrackets = true
	engine, err := NewWithConfig(config, nil)
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "{1 TO 5}", issues[0].Suggestion)
}

func TestProcessPath_Cache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "queries", "a.lucene"), "dinosaur!\n")

	config := DefaultConfig()
	config.CacheDir = filepath.Join(dir, "cache")
	engine, err := NewWithConfig(config, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		issues, err := ProcessPath(context.Background(), nil, engine, filepath.Join(dir, "queries"), ProcessFile)
		require.NoError(t, err)
		assert.Len(t, issues, 1)
	}
	assert.FileExists(t, filepath.Join(config.CacheDir, "luzene_cache.msgpack"))
}

func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("q%d.lucene", i)), "dinosaur!\n")
	}

	engine, err := NewWithConfig(DefaultConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	issues, err := ProcessPath(ctx, nil, engine, dir, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	// partial results are still returned
	assert.NotNil(t, issues)
	assert.LessOrEqual(t, len(issues), 10)
}
