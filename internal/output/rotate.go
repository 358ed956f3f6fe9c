package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NeedsRotation reports whether the log at path has reached maxSize bytes.
// A missing log never needs rotation.
func NeedsRotation(path string, maxSize int64) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat log file: %w", err)
	}
	return maxSize > 0 && info.Size() >= maxSize, nil
}

// RotatedName returns the name a full log is moved to, for example
// "renamer.log" -> "renamer-20240115-093000-042.log".
func RotatedName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s-%s-%03d%s", stem, now.Format("20060102-150405"), now.Nanosecond()/1000000, ext)
}

// RotateIfNeeded moves a full log aside so the next Open starts a fresh
// file. It returns the rotated path, or "" when nothing was rotated.
func RotateIfNeeded(path string, maxSize int64) (string, error) {
	full, err := NeedsRotation(path, maxSize)
	if err != nil || !full {
		return "", err
	}
	rotated := RotatedName(path, time.Now())
	if err := os.Rename(path, rotated); err != nil {
		return "", fmt.Errorf("failed to rotate log file: %w", err)
	}
	return rotated, nil
}
