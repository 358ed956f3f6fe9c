package transform

import (
	"path/filepath"
	"strings"
)

// SplitName splits a file name into base name and extension at the last dot.
// The extension keeps its leading dot. Leading dots do not start an extension,
// so ".bashrc" has no extension while "archive.tar.gz" has ".gz".
func SplitName(name string) (base, ext string) {
	lastDot := strings.LastIndex(name, ".")
	if lastDot <= 0 {
		return name, ""
	}
	if strings.TrimLeft(name[:lastDot], ".") == "" {
		return name, ""
	}
	return name[:lastDot], name[lastDot:]
}

// SplitPath splits a path into its directory part (with trailing separator,
// possibly empty), base name and extension.
func SplitPath(path string) (dir, base, ext string) {
	dir, name := filepath.Split(path)
	base, ext = SplitName(name)
	return dir, base, ext
}

// JoinPath recombines the parts produced by SplitPath.
// The join is textual so an unchanged name reproduces the input path exactly.
func JoinPath(dir, base, ext string) string {
	return dir + base + ext
}
