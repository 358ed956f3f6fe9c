// Package scanner enumerates the regular files inside a directory.
package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// SymlinkError indicates a symlink was encountered with "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
)

// Symlink policy constants
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	MaxDepth      int    // Maximum depth to scan (0 = immediate only, -1 = unlimited)
	SymlinkPolicy string // "follow", "skip", or "error"
}

// DefaultScanOptions returns one-level scanning that follows symlinks, so a
// link to a regular file counts as a file.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MaxDepth:      0,
		SymlinkPolicy: SymlinkPolicyFollow,
	}
}

// FileEntry represents a file found during scanning.
type FileEntry struct {
	Name string // Filename only
	Path string // Directory argument joined with Name, not cleaned
}

// Scan lists the regular files directly inside directory.
func Scan(directory string) ([]FileEntry, error) {
	return ScanWithOptions(directory, DefaultScanOptions())
}

// ScanWithOptions scans directory with configurable options.
func ScanWithOptions(directory string, opts ScanOptions) ([]FileEntry, error) {
	info, err := os.Lstat(directory)
	if err != nil {
		return nil, statError(directory, err)
	}

	info, skip, err := followLink(directory, info, opts.SymlinkPolicy)
	switch {
	case err != nil:
		return nil, err
	case skip:
		return []FileEntry{}, nil
	case info == nil:
		return nil, &ScanError{Type: DirectoryNotFound, Path: directory, Err: errors.New("dangling symlink")}
	case !info.IsDir():
		return nil, &ScanError{Type: DirectoryNotFound, Path: directory, Err: errors.New("path is not a directory")}
	}

	return walk(directory, opts, 0)
}

// statError maps a failed stat of the scan root to a ScanError.
func statError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &ScanError{Type: DirectoryNotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	}
	return err
}

// followLink applies the symlink policy to an Lstat result. It returns the
// target's info, or skip=true when the entry should be left out. A nil info
// with no error means a dangling link.
func followLink(path string, info fs.FileInfo, policy string) (fs.FileInfo, bool, error) {
	if info.Mode()&fs.ModeSymlink == 0 {
		return info, false, nil
	}
	switch policy {
	case SymlinkPolicyError:
		return nil, false, &ScanError{Type: SymlinkError, Path: path, Err: errors.New("symlink encountered with error policy")}
	case SymlinkPolicySkip:
		return nil, true, nil
	}
	target, err := os.Stat(path)
	if err != nil {
		return nil, false, nil
	}
	return target, false, nil
}

// walk collects regular files below directory, descending while depth allows.
func walk(directory string, opts ScanOptions, depth int) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	var files []FileEntry
	for _, de := range dirEntries {
		full := Join(directory, de.Name())

		info, err := os.Lstat(full)
		if err != nil {
			continue
		}
		info, skip, err := followLink(full, info, opts.SymlinkPolicy)
		if err != nil {
			return nil, err
		}
		if skip || info == nil {
			continue
		}

		if info.IsDir() {
			if opts.MaxDepth >= 0 && depth >= opts.MaxDepth {
				continue
			}
			nested, err := walk(full, opts, depth+1)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
			continue
		}

		if info.Mode().IsRegular() {
			files = append(files, FileEntry{Name: de.Name(), Path: full})
		}
	}

	return files, nil
}

// Join appends name to directory without cleaning the directory text, so
// "./photos" stays "./photos/IMG.jpg" rather than "photos/IMG.jpg".
func Join(directory, name string) string {
	if directory == "" {
		return name
	}
	if strings.HasSuffix(directory, string(filepath.Separator)) || strings.HasSuffix(directory, "/") {
		return directory + name
	}
	return directory + string(filepath.Separator) + name
}
