package internal

import (
	"go/token"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/luzene/internal/types"
)

func sampleIssues(filename string) []tt.Issue {
	return []tt.Issue{{
		Rule:       RuleNonCanonical,
		Category:   "style",
		Filename:   filename,
		Message:    "query is not in canonical form",
		Suggestion: `dinosaur\!`,
		Query:      "dinosaur!",
		Start:      token.Position{Line: 1, Column: 1, Filename: filename},
		End:        token.Position{Line: 1, Column: 9, Filename: filename},
		Severity:   tt.SeverityInfo,
	}}
}

func TestCache(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)

	t.Run("SaveAndGet", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "saved.lucene")
		require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))

		issues := sampleIssues(filename)
		require.NoError(t, cache.Set(filename, issues))

		loaded, found := cache.Get(filename)
		assert.True(t, found)
		assert.Equal(t, issues, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.lucene")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "modified.lucene")
		require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))
		require.NoError(t, cache.Set(filename, sampleIssues(filename)))

		require.NoError(t, os.WriteFile(filename, []byte("dinosaur\n"), 0o644))
		_, found := cache.Get(filename)
		assert.False(t, found)
	})
}

func TestCache_Persisted(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")
	filename := filepath.Join(tmpDir, "q.lucene")
	require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))

	cache, err := NewCache(cacheDir)
	require.NoError(t, err)
	require.NoError(t, cache.Set(filename, sampleIssues(filename)))

	reopened, err := NewCache(cacheDir)
	require.NoError(t, err)
	loaded, found := reopened.Get(filename)
	require.True(t, found)
	assert.Equal(t, sampleIssues(filename), loaded)
}

func TestCache_DependencyChanged(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	config := filepath.Join(tmpDir, ".luzene.yaml")
	require.NoError(t, os.WriteFile(config, []byte("name: luzene\n"), 0o644))
	filename := filepath.Join(tmpDir, "q.lucene")
	require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), config)
	require.NoError(t, err)
	require.NoError(t, cache.Set(filename, sampleIssues(filename)))

	_, found := cache.Get(filename)
	require.True(t, found)

	require.NoError(t, os.WriteFile(config, []byte("name: other\n"), 0o644))
	_, found = cache.Get(filename)
	assert.False(t, found)
}

func TestCache_MaxAge(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "q.lucene")
	require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))

	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)
	cache.SetMaxAge(time.Nanosecond)
	require.NoError(t, cache.Set(filename, sampleIssues(filename)))

	time.Sleep(time.Millisecond)
	_, found := cache.Get(filename)
	assert.False(t, found)

	cache.SetMaxAge(0)
	require.NoError(t, cache.Set(filename, sampleIssues(filename)))
	cache.InvalidateAll()
	_, found = cache.Get(filename)
	assert.False(t, found)
}

func TestCacheWithEngine(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)
	engine, err := NewEngine(nil, WithCache(cache))
	require.NoError(t, err)

	filename := filepath.Join(tmpDir, "cached.lucene")
	require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))

	issues, err := engine.Run(filename)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	cached, found := cache.Get(filename)
	require.True(t, found)
	assert.Equal(t, issues, cached)

	again, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Equal(t, issues, again)

	require.NoError(t, os.WriteFile(filename, []byte("dinosaur\n"), 0o644))
	fresh, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)

	filename := filepath.Join(tmpDir, "q.lucene")
	require.NoError(t, os.WriteFile(filename, []byte("dinosaur!\n"), 0o644))
	issues := sampleIssues(filename)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(filename, issues))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(filename)
		}()
	}
	wg.Wait()

	loaded, found := cache.Get(filename)
	assert.True(t, found)
	assert.Equal(t, issues, loaded)
}
