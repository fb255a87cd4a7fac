// Package watcher re-checks value files as they are created or rewritten
// in the input directories.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"eventdate/internal/scanner"
)

// minDebounce is the shortest delay used to coalesce the Create and Write
// events a single save produces.
const minDebounce = 100 * time.Millisecond

// WatchConfig contains watcher settings.
type WatchConfig struct {
	DebounceSeconds   int      // Delay before checking a changed file (default: 2)
	StableThresholdMs int      // File size must be unchanged this long before checking; 0 disables (default: 1000)
	IgnorePatterns    []string // Glob patterns to ignore (e.g., "*.tmp", "*.swp")
	Extensions        []string // Value file extensions; empty matches every file
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
		IgnorePatterns:    DefaultIgnorePatterns(),
	}
}

func (c *WatchConfig) debounceDelay() time.Duration {
	d := time.Duration(c.DebounceSeconds) * time.Second
	if d < minDebounce {
		return minDebounce
	}
	return d
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	FilesChecked  int
	ValuesChecked int
	ValuesFailed  int
	FilesSkipped  int
	Errors        int
	Duration      time.Duration
}

// FileHandler checks the value file at path and returns how many values it
// held and how many of them failed.
type FileHandler func(path string) (values int, failed int, err error)

// ErrorHandler is told about watch errors and files that could not be checked.
// path is empty for errors from the underlying file system watcher.
type ErrorHandler func(path string, err error)

// Watcher monitors directories for value file changes.
type Watcher struct {
	config       *WatchConfig
	fileHandler  FileHandler
	errorHandler ErrorHandler
	fsWatcher    *fsnotify.Watcher
	fileFilter   *FileFilter
	debouncer    *Debouncer
	stability    *StabilityChecker
	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	wg           sync.WaitGroup
	inflight     sync.WaitGroup
	startTime    time.Time

	mu      sync.Mutex
	stopped bool
	summary WatchSummary
}

// New creates a new Watcher with the given configuration.
// If config is nil, default configuration is used.
// The fileHandler is called once activity on a value file has settled.
func New(config *WatchConfig, fileHandler FileHandler) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	w := &Watcher{
		config:      config,
		fileHandler: fileHandler,
		fileFilter:  NewFileFilter(config.IgnorePatterns),
		done:        make(chan struct{}),
	}
	w.debouncer = NewDebouncer(config.debounceDelay(), w.checkFile)
	if config.StableThresholdMs > 0 {
		w.stability = NewStabilityChecker(time.Duration(config.StableThresholdMs) * time.Millisecond)
	}
	return w
}

// SetErrorHandler registers h to receive errors. It must be called before Start.
func (w *Watcher) SetErrorHandler(h ErrorHandler) {
	w.errorHandler = h
}

// Start begins watching the specified directories for file changes.
// It returns an error if the watcher cannot be initialized.
// The watcher runs until Stop() is called.
func (w *Watcher) Start(dirs []string) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			w.fsWatcher.Close()
			return err
		}
		if err := w.fsWatcher.Add(absDir); err != nil {
			w.fsWatcher.Close()
			return err
		}
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})
	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts down the watcher, waits for checks in progress and returns a
// summary of the session. Files still waiting out their debounce delay are
// not checked. Calling Stop again returns the same counts.
func (w *Watcher) Stop() *WatchSummary {
	w.mu.Lock()
	if w.stopped {
		summary := w.summary
		w.mu.Unlock()
		return &summary
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()

	w.debouncer.CancelAll()
	if w.cancel != nil {
		w.cancel()
	}
	w.inflight.Wait()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.startTime.IsZero() {
		w.summary.Duration = time.Since(w.startTime)
	}
	summary := w.summary
	return &summary
}

// processEvents handles file system events from fsnotify.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.handleFileEvent(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.reportError("", err)
		}
	}
}

// handleFileEvent filters the path and schedules it for checking.
func (w *Watcher) handleFileEvent(path string) {
	if w.shouldIgnore(path) {
		w.mu.Lock()
		w.summary.FilesSkipped++
		w.mu.Unlock()
		return
	}
	w.debouncer.Add(path)
}

// checkFile runs once the debounce delay for path has expired.
func (w *Watcher) checkFile(path string) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	if w.stability != nil {
		if err := w.stability.WaitForStableWithContext(w.ctx, path); err != nil {
			if errors.Is(err, ErrFileNotFound) || errors.Is(err, context.Canceled) {
				w.skip()
				return
			}
			w.fail(path, err)
			return
		}
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		// Removed before it could be checked, or a new subdirectory.
		w.skip()
		return
	}

	if w.fileHandler == nil {
		w.mu.Lock()
		w.summary.FilesChecked++
		w.mu.Unlock()
		return
	}

	values, failed, err := w.fileHandler(path)
	if err != nil {
		w.fail(path, err)
		return
	}

	w.mu.Lock()
	w.summary.FilesChecked++
	w.summary.ValuesChecked += values
	w.summary.ValuesFailed += failed
	w.mu.Unlock()
}

func (w *Watcher) skip() {
	w.mu.Lock()
	w.summary.FilesSkipped++
	w.mu.Unlock()
}

func (w *Watcher) fail(path string, err error) {
	w.mu.Lock()
	w.summary.Errors++
	w.mu.Unlock()
	w.reportError(path, err)
}

func (w *Watcher) reportError(path string, err error) {
	if w.errorHandler != nil {
		w.errorHandler(path, err)
	}
}

// shouldIgnore reports whether path is hidden, matches an ignore pattern
// or lacks a value file extension.
func (w *Watcher) shouldIgnore(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if w.fileFilter.ShouldIgnore(path) {
		return true
	}
	return !scanner.MatchesExtension(name, w.config.Extensions)
}

// GetConfig returns the current watcher configuration.
func (w *Watcher) GetConfig() *WatchConfig {
	return w.config
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	select {
	case <-w.done:
		return false
	default:
		return w.fsWatcher != nil
	}
}
