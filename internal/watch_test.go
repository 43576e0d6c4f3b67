package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/luzene/internal/types"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(filename string) ([]tt.Issue, error) {
	args := m.Called(filename)
	return args.Get(0).([]tt.Issue), args.Error(1)
}

func TestWatcher_Debounce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	name := filepath.Join(dir, "q.lucene")

	runner := new(mockRunner)
	runner.On("Run", name).Return([]tt.Issue{{Rule: RuleNonCanonical}}, nil).Once()

	reports := make(chan string, 4)
	w, err := NewWatcher(runner, []string{dir}, []string{".lucene"}, func(filename string, _ []tt.Issue) {
		reports <- filename
	}, nil)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 3; i++ {
		w.handleFileEvent(fsnotify.Event{Name: name, Op: fsnotify.Write})
	}
	w.handleFileEvent(fsnotify.Event{Name: name, Op: fsnotify.Chmod})
	w.handleFileEvent(fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write})

	select {
	case got := <-reports:
		assert.Equal(t, name, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no report")
	}

	// give a stray second timer the chance to fire
	time.Sleep(3 * defaultDebounce)
	assert.Empty(t, reports)
	runner.AssertExpectations(t)
}

func TestWatcher_Watch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	reports := make(chan []tt.Issue, 8)
	w, err := NewWatcher(engine, []string{dir}, []string{".lucene"}, func(_ string, issues []tt.Issue) {
		reports <- issues
	}, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "q.lucene"), []byte("pony &&\n"), 0o644))

	select {
	case issues := <-reports:
		require.Len(t, issues, 1)
		assert.Equal(t, RuleDanglingBoolean, issues[0].Rule)
	case <-time.After(5 * time.Second):
		t.Fatal("no report")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewWatcher_MissingPath(t *testing.T) {
	t.Parallel()
	_, err := NewWatcher(new(mockRunner), []string{filepath.Join(t.TempDir(), "missing")}, nil, nil, nil)
	assert.Error(t, err)
}
