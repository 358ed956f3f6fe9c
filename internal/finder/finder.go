// Package finder lists files whose names match a shell glob.
package finder

import (
	"fmt"
	"path/filepath"

	"renamer/internal/scanner"
)

// Find returns the regular files under dir whose name matches pattern.
// Without recursive only the files directly inside dir are considered.
// Paths keep dir as given, in walk order.
func Find(dir, pattern string, recursive bool) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	opts := scanner.DefaultScanOptions()
	if recursive {
		opts.MaxDepth = -1
	}

	entries, err := scanner.ScanWithOptions(dir, opts)
	if err != nil {
		return nil, err
	}

	matches := []string{}
	for _, entry := range entries {
		ok, _ := filepath.Match(pattern, entry.Name)
		if ok {
			matches = append(matches, entry.Path)
		}
	}
	return matches, nil
}
