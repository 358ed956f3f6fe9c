// Package executor performs or simulates a single rename.
package executor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"renamer/internal/chain"
)

// Mode selects between performing renames and simulating them.
type Mode int

const (
	// ModeExecute renames files on disk.
	ModeExecute Mode = iota
	// ModeDryRun prints a dry-run record instead of renaming.
	ModeDryRun
)

func (m Mode) String() string {
	if m == ModeDryRun {
		return "dry-run"
	}
	return "execute"
}

// ModeFor maps a dry-run flag to a Mode.
func ModeFor(dryRun bool) Mode {
	if dryRun {
		return ModeDryRun
	}
	return ModeExecute
}

// ConflictPolicy decides what happens when the target name is taken.
type ConflictPolicy string

const (
	// ConflictFail reports the rename as failed.
	ConflictFail ConflictPolicy = "fail"
	// ConflictSuffix renames to a free "_duplicate" variant of the target.
	ConflictSuffix ConflictPolicy = "suffix"
)

// ParseConflictPolicy validates a policy name. Empty means ConflictFail.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ConflictFail, nil
	case ConflictFail, ConflictSuffix:
		return p, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (want fail or suffix)", s)
	}
}

// Action describes what Execute did.
type Action string

const (
	ActionUnchanged Action = "UNCHANGED"
	ActionRenamed   Action = "RENAMED"
	ActionSimulated Action = "SIMULATED"
)

// RenameErrorType represents the type of rename error.
type RenameErrorType string

const (
	// SourceNotFound indicates the file to rename does not exist.
	SourceNotFound RenameErrorType = "SOURCE_NOT_FOUND"
	// DestinationExists indicates another file already has the new name.
	DestinationExists RenameErrorType = "DESTINATION_EXISTS"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied RenameErrorType = "PERMISSION_DENIED"
	// CrossDevice indicates the new path is on another filesystem.
	CrossDevice RenameErrorType = "CROSS_DEVICE"
	// RenameFailed covers every other rename failure.
	RenameFailed RenameErrorType = "RENAME_FAILED"
)

// RenameError represents a failed rename.
type RenameError struct {
	Type    RenameErrorType
	OldPath string
	NewPath string
	Err     error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: '%s' -> '%s' (%v)", e.Type, e.OldPath, e.NewPath, e.Err)
	}
	return fmt.Sprintf("%s: '%s' -> '%s'", e.Type, e.OldPath, e.NewPath)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Result describes a single Execute call.
type Result struct {
	OldPath       string
	NewPath       string // Final path, including any duplicate suffix
	RequestedPath string // Path computed by the pipeline
	Action        Action
	IsDuplicate   bool
}

// Reporter receives dry-run records and informational messages.
type Reporter interface {
	Record(line string)
	Info(format string, args ...interface{})
}

// Executor renames files or reports what it would rename.
type Executor struct {
	out    Reporter
	policy ConflictPolicy
}

// New creates an Executor. An empty policy means ConflictFail.
func New(out Reporter, policy ConflictPolicy) *Executor {
	if policy == "" {
		policy = ConflictFail
	}
	return &Executor{out: out, policy: policy}
}

// Execute renames oldPath to newPath, or prints a dry-run record in ModeDryRun.
// Identical paths are a silent no-op. Errors are *RenameError values; the
// caller decides whether to continue.
func (e *Executor) Execute(oldPath, newPath string, mode Mode) (*Result, error) {
	result := &Result{
		OldPath:       oldPath,
		NewPath:       newPath,
		RequestedPath: newPath,
		Action:        ActionUnchanged,
	}

	if oldPath == newPath {
		return result, nil
	}

	if mode == ModeDryRun {
		e.out.Record(chain.Format(oldPath, newPath))
		result.Action = ActionSimulated
		return result, nil
	}

	srcInfo, err := os.Lstat(oldPath)
	if err != nil {
		return nil, newRenameError(oldPath, newPath, err)
	}

	if dstInfo, err := os.Lstat(newPath); err == nil && !os.SameFile(srcInfo, dstInfo) {
		if e.policy != ConflictSuffix {
			return nil, &RenameError{
				Type:    DestinationExists,
				OldPath: oldPath,
				NewPath: newPath,
				Err:     fs.ErrExist,
			}
		}
		dir, name := filepath.Split(newPath)
		newPath = dir + GenerateDuplicateName(dir, name)
		result.NewPath = newPath
		result.IsDuplicate = true
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return nil, newRenameError(oldPath, newPath, err)
	}

	e.out.Info("Renamed '%s' to '%s'", oldPath, newPath)
	result.Action = ActionRenamed
	return result, nil
}

// newRenameError classifies a filesystem error.
func newRenameError(oldPath, newPath string, err error) *RenameError {
	errType := RenameFailed
	switch {
	case isCrossDevice(err):
		errType = CrossDevice
	case errors.Is(err, fs.ErrPermission):
		errType = PermissionDenied
	case errors.Is(err, fs.ErrExist):
		errType = DestinationExists
	case errors.Is(err, fs.ErrNotExist):
		if _, statErr := os.Lstat(oldPath); statErr != nil {
			errType = SourceNotFound
		}
	}
	return &RenameError{
		Type:    errType,
		OldPath: oldPath,
		NewPath: newPath,
		Err:     err,
	}
}
