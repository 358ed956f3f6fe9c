package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}

// immediate disables debouncing and the stability wait.
func immediate() *Config {
	return &Config{IgnorePatterns: DefaultIgnorePatterns()}
}

// waitFor polls cond for up to two seconds.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, config *Config, handler Handler, dirs ...string) *Watcher {
	t.Helper()
	w := New(config, handler, nopLogger{})
	if err := w.Start(dirs); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	return w
}

func TestWatcher_NewFileIsHandled(t *testing.T) {
	tmpDir := t.TempDir()

	var mu sync.Mutex
	var handled []string
	w := startWatcher(t, immediate(), func(path string) (string, error) {
		mu.Lock()
		handled = append(handled, path)
		mu.Unlock()
		return "", nil
	}, tmpDir)

	testFile := filepath.Join(tmpDir, "IMG-001.jpg")
	if err := os.WriteFile(testFile, []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(handled) == 1
	})
	summary := w.Stop()

	if !ok {
		t.Fatalf("handler was not called, handled = %v", handled)
	}
	if abs, _ := filepath.Abs(testFile); handled[0] != abs {
		t.Errorf("handled %s, want %s", handled[0], abs)
	}
	if summary.Kept != 1 || summary.Renamed != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestWatcher_TempFilesIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	var calls atomic.Int32
	w := startWatcher(t, immediate(), func(path string) (string, error) {
		calls.Add(1)
		return "", nil
	}, tmpDir)

	for _, name := range []string{"a.tmp", "b.part", "c.download"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.summary.Ignored >= 3
	})
	summary := w.Stop()

	if calls.Load() != 0 {
		t.Errorf("temp files must not reach the handler, got %d calls", calls.Load())
	}
	if summary.Ignored < 3 {
		t.Errorf("Ignored = %d, want at least 3", summary.Ignored)
	}
}

func TestWatcher_OwnRenameDoesNotRetrigger(t *testing.T) {
	tmpDir := t.TempDir()

	var calls atomic.Int32
	w := startWatcher(t, immediate(), func(path string) (string, error) {
		calls.Add(1)
		newPath := filepath.Join(filepath.Dir(path), strings.ToUpper(filepath.Base(path)))
		return newPath, os.Rename(path, newPath)
	}, tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "scan.pdf"), []byte("pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		_, err := os.Stat(filepath.Join(tmpDir, "SCAN.PDF"))
		return err == nil
	})
	time.Sleep(200 * time.Millisecond)
	summary := w.Stop()

	if calls.Load() != 1 {
		t.Errorf("handler called %d times, want 1", calls.Load())
	}
	if summary.Renamed != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestWatcher_HandlerErrorCountsAsFailed(t *testing.T) {
	tmpDir := t.TempDir()

	w := startWatcher(t, immediate(), func(path string) (string, error) {
		return "", errors.New("rename failed")
	}, tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.summary.Failed == 1
	})
	if summary := w.Stop(); summary.Failed != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestWatcher_DirectoriesIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	var calls atomic.Int32
	w := startWatcher(t, immediate(), func(path string) (string, error) {
		calls.Add(1)
		return "", nil
	}, tmpDir)

	if err := os.Mkdir(filepath.Join(tmpDir, "albums"), 0755); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.summary.Ignored == 1
	})
	w.Stop()

	if calls.Load() != 0 {
		t.Errorf("directories must not reach the handler, got %d calls", calls.Load())
	}
}

func TestWatcher_DebounceCoalescesWrites(t *testing.T) {
	tmpDir := t.TempDir()

	var calls atomic.Int32
	config := immediate()
	config.Debounce = 100 * time.Millisecond
	w := startWatcher(t, config, func(path string) (string, error) {
		calls.Add(1)
		return "", nil
	}, tmpDir)

	path := filepath.Join(tmpDir, "burst.txt")
	for i := 0; i < 3; i++ {
		os.Remove(path)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	waitFor(t, func() bool { return calls.Load() > 0 })
	time.Sleep(150 * time.Millisecond)
	w.Stop()

	if calls.Load() != 1 {
		t.Errorf("handler called %d times, want 1", calls.Load())
	}
}

func TestWatcher_StartWithInvalidDirectory(t *testing.T) {
	w := New(nil, nil, nopLogger{})
	if err := w.Start([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	tmpDir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	w := New(immediate(), nil, nopLogger{})
	done := make(chan *Summary, 1)
	go func() {
		summary, err := w.Run(ctx, []string{tmpDir})
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
		done <- summary
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case summary := <-done:
		if summary == nil {
			t.Error("expected a summary")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if w.IsRunning() {
		t.Error("watcher should not be running after Run returns")
	}
	if again := w.Stop(); again == nil {
		t.Error("a second Stop should still return the summary")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w := New(nil, nil, nopLogger{})
	if w.IsRunning() {
		t.Error("a new watcher is not running")
	}
	summary := w.Stop()
	if summary == nil || summary.Duration != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestWatcher_DefaultConfig(t *testing.T) {
	w := New(nil, nil, nopLogger{})
	config := w.Config()
	if config.Debounce != 2*time.Second || config.StableThreshold != time.Second {
		t.Errorf("unexpected defaults %+v", config)
	}
	if w.debouncer == nil || w.stability == nil {
		t.Error("defaults should enable debounce and the stability check")
	}
}
