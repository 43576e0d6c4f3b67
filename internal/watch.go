package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/luzene/internal/types"
)

const defaultDebounce = 100 * time.Millisecond

// Runner lints one file.
type Runner interface {
	Run(filename string) ([]tt.Issue, error)
}

// ReportFunc receives the issues of a file after every change.
type ReportFunc func(filename string, issues []tt.Issue)

// Watcher re-lints query files when they are written.
type Watcher struct {
	runner     Runner
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	report     ReportFunc
	logger     *zap.Logger
	debounce   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher watches paths, recursively for directories. Only files with
// one of extensions are linted.
func NewWatcher(runner Runner, paths, extensions []string, report ReportFunc, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		runner:     runner,
		watcher:    fw,
		extensions: make(map[string]bool, len(extensions)),
		report:     report,
		logger:     logger,
		debounce:   defaultDebounce,
		pending:    make(map[string]*time.Timer),
	}
	for _, ext := range extensions {
		w.extensions[ext] = true
	}

	for _, path := range paths {
		if err := w.add(path); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.watcher.Add(root)
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

// Watch blocks until ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.stopPending()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !w.extensions[filepath.Ext(event.Name)] {
		return
	}

	// several writes in a row are linted once
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(w.debounce)
		return
	}
	name := event.Name
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		w.lint(name)
	})
}

func (w *Watcher) lint(filename string) {
	issues, err := w.runner.Run(filename)
	if err != nil {
		w.logger.Error("error linting file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.logger.Debug("file changed", zap.String("file", filename), zap.Int("issues", len(issues)))
	w.report(filename, issues)
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, timer := range w.pending {
		timer.Stop()
		delete(w.pending, name)
	}
}
