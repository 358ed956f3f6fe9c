// Package chain implements the dry-run record format that lets one renamer
// invocation feed its simulated renames into a later one.
package chain

import (
	"fmt"
	"strings"
)

const (
	// Prefix marks a dry-run record.
	Prefix = "Dry-run:"
	// Arrow separates the old path from the new path.
	Arrow = "->"
)

// Record is a single simulated rename.
type Record struct {
	OldPath string
	NewPath string
}

// Format renders a record as `Dry-run: '<old>' -> '<new>'` without a trailing newline.
func Format(oldPath, newPath string) string {
	return fmt.Sprintf("%s '%s' %s '%s'", Prefix, oldPath, Arrow, newPath)
}

// String implements fmt.Stringer using the wire format.
func (r Record) String() string {
	return Format(r.OldPath, r.NewPath)
}

// IsRecord reports whether a line looks like a dry-run record.
// Any line containing both the prefix and the arrow qualifies.
func IsRecord(line string) bool {
	return strings.Contains(line, Prefix) && strings.Contains(line, Arrow)
}

// Target extracts the new path from a dry-run record line.
// Returns false if the line is not a record.
func Target(line string) (string, bool) {
	rec, ok := Parse(line)
	return rec.NewPath, ok
}

// Parse splits a record line into its old and new paths. The new path is
// everything after the last arrow, trimmed, with at most one pair of
// matching surrounding quotes removed. OldPath is empty when the prefix does
// not come before that arrow.
func Parse(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if !IsRecord(line) {
		return Record{}, false
	}
	idx := strings.LastIndex(line, Arrow)
	rec := Record{NewPath: unquote(strings.TrimSpace(line[idx+len(Arrow):]))}
	if start := strings.Index(line, Prefix); start+len(Prefix) <= idx {
		rec.OldPath = unquote(strings.TrimSpace(line[start+len(Prefix) : idx]))
	}
	return rec, true
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}
