// Package watcher renames files as they appear in watched directories.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains watcher settings.
type Config struct {
	Debounce        time.Duration // Quiet period per path before processing (default: 2s)
	StableThreshold time.Duration // How long the size must stay unchanged (default: 1s)
	IgnorePatterns  []string      // Glob patterns to ignore (e.g., "*.tmp", "*.part")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debounce:        2 * time.Second,
		StableThreshold: time.Second,
		IgnorePatterns:  DefaultIgnorePatterns(),
	}
}

// Summary contains stats from the watch session.
type Summary struct {
	Renamed  int // Handler produced a new path
	Kept     int // Handler left the name as it was
	Ignored  int // Temp files, own output, directories and unstable files
	Failed   int
	Duration time.Duration
}

// Handler processes one new file and returns the path it renamed the file
// to, or "" when the file kept its name.
type Handler func(path string) (string, error)

// Logger receives watcher diagnostics.
type Logger interface {
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Watcher monitors directories for new files.
type Watcher struct {
	config    *Config
	handler   Handler
	log       Logger
	fsWatcher *fsnotify.Watcher
	filter    *FileFilter
	debouncer *Debouncer
	stability *StabilityChecker
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time
	ctx       context.Context
	cancel    context.CancelFunc

	// handleMu serializes handler calls.
	handleMu sync.Mutex
	stopped  bool

	mu       sync.Mutex
	produced map[string]struct{}
	summary  Summary
}

// New creates a Watcher. A nil config means DefaultConfig.
func New(config *Config, handler Handler, log Logger) *Watcher {
	if config == nil {
		config = DefaultConfig()
	}
	w := &Watcher{
		config:   config,
		handler:  handler,
		log:      log,
		filter:   NewFileFilter(config.IgnorePatterns),
		done:     make(chan struct{}),
		produced: make(map[string]struct{}),
	}
	if config.StableThreshold > 0 {
		w.stability = NewStabilityChecker(config.StableThreshold)
	}
	if config.Debounce > 0 {
		w.debouncer = NewDebouncer(config.Debounce, w.process)
	}
	return w
}

// Start begins watching dirs. Only files created directly inside them are seen.
func (w *Watcher) Start(dirs []string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			fsWatcher.Close()
			return err
		}
		if err := fsWatcher.Add(absDir); err != nil {
			fsWatcher.Close()
			return err
		}
		w.log.Debug("Watching %s", absDir)
	}

	w.log.Debug("Ignoring files matching %v", w.filter.Patterns())

	w.fsWatcher = fsWatcher
	w.startTime = time.Now()
	w.done = make(chan struct{})
	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Run watches dirs until ctx is cancelled and returns the session summary.
func (w *Watcher) Run(ctx context.Context, dirs []string) (*Summary, error) {
	if err := w.Start(dirs); err != nil {
		return nil, err
	}
	<-ctx.Done()
	return w.Stop(), nil
}

// Stop shuts the watcher down, waits for an in-flight handler and returns
// the session summary. Calling it again only returns the summary.
func (w *Watcher) Stop() *Summary {
	if w.IsRunning() {
		w.cancel()
		if w.debouncer != nil {
			w.debouncer.CancelAll()
		}

		close(w.done)
		w.wg.Wait()

		w.handleMu.Lock()
		w.stopped = true
		w.handleMu.Unlock()

		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	summary := w.summary
	if !w.startTime.IsZero() {
		summary.Duration = time.Since(w.startTime)
	}
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
			if event.Has(fsnotify.Create) {
				w.onCreate(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error: %v", err)
		}
	}
}

// onCreate filters a new path and schedules it.
func (w *Watcher) onCreate(path string) {
	if w.filter.ShouldIgnore(path) {
		w.log.Debug("Ignoring temporary file %s", path)
		w.count(func(s *Summary) { s.Ignored++ })
		return
	}
	if w.debouncer != nil {
		w.debouncer.Add(path)
		return
	}
	w.process(path)
}

// process waits for path to settle and hands it to the handler.
func (w *Watcher) process(path string) {
	if w.consumeProduced(path) {
		w.log.Debug("Ignoring %s: produced by this watcher", path)
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		w.log.Debug("Ignoring %s: not a regular file", path)
		w.count(func(s *Summary) { s.Ignored++ })
		return
	}

	if w.stability != nil {
		if err := w.stability.WaitForStable(w.ctx, path); err != nil {
			if !errors.Is(err, context.Canceled) {
				w.log.Debug("Ignoring %s: %v", path, err)
			}
			w.count(func(s *Summary) { s.Ignored++ })
			return
		}
	}

	w.handleMu.Lock()
	defer w.handleMu.Unlock()
	if w.stopped {
		return
	}

	if w.handler == nil {
		w.count(func(s *Summary) { s.Kept++ })
		return
	}

	newPath, err := w.handler(path)
	switch {
	case err != nil:
		w.count(func(s *Summary) { s.Failed++ })
	case newPath != "" && newPath != path:
		w.markProduced(newPath)
		w.count(func(s *Summary) { s.Renamed++ })
	default:
		w.count(func(s *Summary) { s.Kept++ })
	}
}

// markProduced records a path so its Create event is ignored once.
func (w *Watcher) markProduced(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.mu.Lock()
	w.produced[path] = struct{}{}
	w.mu.Unlock()
}

func (w *Watcher) consumeProduced(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.produced[path]; ok {
		delete(w.produced, path)
		return true
	}
	return false
}

func (w *Watcher) count(update func(*Summary)) {
	w.mu.Lock()
	update(&w.summary)
	w.mu.Unlock()
}

// Config returns the watcher configuration.
func (w *Watcher) Config() *Config {
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
