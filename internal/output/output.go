// Package output handles renamer's two output streams: diagnostics with a
// level filter and an optional log file, and the record stream that carries
// dry-run records for chaining.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Level controls which diagnostics are shown.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the tag used in log file lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Config holds output configuration.
type Config struct {
	Level     Level     // Minimum level for diagnostics
	Writer    io.Writer // Record destination (default: os.Stdout)
	ErrWriter io.Writer // Diagnostics destination (default: os.Stderr)
	IsTTY     bool      // Whether ErrWriter is a terminal

	MaxLogSize int64 // Rotate the log file on Open once it reaches this size (0: never)
}

// Output writes records and leveled diagnostics.
type Output struct {
	config Config

	fileMu sync.Mutex
	file   *os.File

	progressActive  bool
	progressTotal   int
	progressCurrent int
	progressMu      sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// Open creates an Output that also appends diagnostics to logPath.
// The parent directory is created if needed. Call Close when done.
func Open(config Config, logPath string) (*Output, error) {
	o := New(config)
	if logPath == "" {
		return o, nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if config.MaxLogSize > 0 {
		if _, err := RotateIfNeeded(logPath, config.MaxLogSize); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	o.file = f
	return o, nil
}

// DefaultConfig returns a Config writing to the process streams with TTY detection on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     LevelInfo,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Close closes the log file if one was opened.
func (o *Output) Close() error {
	o.fileMu.Lock()
	defer o.fileMu.Unlock()
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	return err
}

// Record writes one protocol line to the record stream. Records are never
// filtered or decorated.
func (o *Output) Record(line string) {
	o.clearProgressLine()
	fmt.Fprintln(o.config.Writer, line)
	o.logToFile("RECORD", line)
}

// Debug prints a message only at debug level.
func (o *Output) Debug(format string, args ...interface{}) {
	o.diagnostic(LevelDebug, "", format, args...)
}

// Info prints an informational message unless output is restricted to errors.
func (o *Output) Info(format string, args ...interface{}) {
	o.diagnostic(LevelInfo, "", format, args...)
}

// Error prints an error message. Errors are always shown.
func (o *Output) Error(format string, args ...interface{}) {
	o.diagnostic(LevelError, "error: ", format, args...)
}

func (o *Output) diagnostic(level Level, prefix, format string, args ...interface{}) {
	if level < o.config.Level {
		return
	}
	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	o.clearProgressLine()
	fmt.Fprint(o.config.ErrWriter, prefix+msg+"\n")
	o.logToFile(level.String(), msg)
}

// logToFile appends a timestamped line to the log file, if any.
func (o *Output) logToFile(tag, msg string) {
	o.fileMu.Lock()
	defer o.fileMu.Unlock()
	if o.file == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	_, _ = io.WriteString(o.file, ts+" ["+tag+"] "+msg+"\n")
}

// clearProgressLine clears the current progress line if active.
func (o *Output) clearProgressLine() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.ErrWriter, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

// progressEnabled reports whether progress lines may be drawn.
func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && o.config.Level == LevelInfo
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int) {
	// Suppressed when not a TTY, in debug mode, and in quiet mode
	if !o.progressEnabled() {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.progressActive = true
	o.progressTotal = total
	o.progressCurrent = 0
}

// UpdateProgress updates the progress indicator.
func (o *Output) UpdateProgress(current int, message string) {
	if !o.progressEnabled() {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressCurrent = current
	progressMsg := fmt.Sprintf("\rRenaming file %d/%d...", current, o.progressTotal)
	if message != "" {
		progressMsg = fmt.Sprintf("\r%s %d/%d...", message, current, o.progressTotal)
	}
	fmt.Fprint(o.config.ErrWriter, progressMsg)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if !o.progressEnabled() {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressActive = false
	fmt.Fprint(o.config.ErrWriter, "\r"+strings.Repeat(" ", 60)+"\r")
}
