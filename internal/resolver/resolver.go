// Package resolver turns renamer's input sources into an ordered list of
// candidate paths.
//
// Exactly one source is used per run, in this order of precedence:
// piped stdin, explicit path arguments, a list file. Piped stdin may carry
// dry-run records from an earlier run, in which case the new path of each
// record becomes a candidate and the whole batch switches to dry-run.
package resolver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"renamer/internal/chain"
	"renamer/internal/scanner"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// Source identifies which input produced the candidates.
type Source string

const (
	SourceNone     Source = "none"
	SourceStdin    Source = "stdin"
	SourceArgs     Source = "args"
	SourceListFile Source = "list-file"
)

// Logger receives non-fatal resolution problems.
type Logger interface {
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Input describes the available input sources.
type Input struct {
	Stdin    io.Reader // Read only when Piped is true
	Piped    bool      // Stdin is not an interactive terminal
	Args     []string  // Explicit file or directory arguments
	ListFile string    // File with one path per line
	DryRun   bool      // Dry-run requested on the command line
}

// Result is the outcome of resolution.
type Result struct {
	Paths          []string
	DryRunDetected bool
	Source         Source
}

// IsPiped reports whether f is not an interactive terminal.
func IsPiped(f *os.File) bool {
	return !term.IsTerminal(int(f.Fd()))
}

// Resolve produces the candidate paths for a run. Missing arguments and an
// unreadable list file are logged and skipped. The only error returned is a
// failure to read piped stdin; the paths read before the failure are kept.
func Resolve(in Input, log Logger) (*Result, error) {
	result := &Result{
		Paths:          []string{},
		DryRunDetected: in.DryRun,
		Source:         SourceNone,
	}

	switch {
	case in.Piped && in.Stdin != nil:
		result.Source = SourceStdin
		return result, readStdin(in.Stdin, result)
	case len(in.Args) > 0:
		result.Source = SourceArgs
		result.Paths = expandArgs(in.Args, log)
	case in.ListFile != "":
		result.Source = SourceListFile
		result.Paths = readListFile(in.ListFile, log)
	}

	return result, nil
}

// readStdin consumes piped lines, recognising dry-run records.
func readStdin(r io.Reader, result *Result) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if target, ok := chain.Target(line); ok {
			result.Paths = append(result.Paths, target)
			result.DryRunDetected = true
			continue
		}
		result.Paths = append(result.Paths, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}

// expandArgs includes regular files and expands directories one level.
func expandArgs(args []string, log Logger) []string {
	paths := []string{}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			log.Debug("Path does not exist: %s", arg)
			continue
		}

		switch {
		case info.IsDir():
			entries, err := scanner.Scan(arg)
			if err != nil {
				log.Error("failed to list %s: %v", arg, err)
				continue
			}
			for _, entry := range entries {
				paths = append(paths, entry.Path)
			}
		case info.Mode().IsRegular():
			paths = append(paths, arg)
		default:
			log.Debug("Skipping %s: not a regular file or directory", arg)
		}
	}
	return paths
}

// readListFile returns the non-blank trimmed lines of path.
func readListFile(path string, log Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Error("failed to open list file %s: %v", path, err)
		return []string{}
	}
	defer f.Close()

	paths := []string{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	if err := sc.Err(); err != nil {
		log.Error("failed to read list file %s: %v", path, err)
	}
	return paths
}
