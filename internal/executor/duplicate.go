package executor

import (
	"os"
	"regexp"
	"strconv"

	"renamer/internal/scanner"
	"renamer/internal/transform"
)

// duplicateSuffix matches a base name that already carries _duplicate or _duplicate_N.
var duplicateSuffix = regexp.MustCompile(`^(.+)_duplicate(?:_(\d+))?$`)

// Occupied reports whether anything, including a dangling symlink, exists at path.
func Occupied(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// GenerateDuplicateName returns a free variant of name inside dir.
// The suffix goes before the extension:
//
//   - "mbl.txt" -> "mbl_duplicate.txt"
//   - "mbl_duplicate.txt" -> "mbl_duplicate_2.txt"
//   - ".bashrc" -> ".bashrc_duplicate"
//
// A name that is still free is returned unchanged.
func GenerateDuplicateName(dir, name string) string {
	if !Occupied(scanner.Join(dir, name)) {
		return name
	}

	base, ext := transform.SplitName(name)
	next := 1
	if m := duplicateSuffix.FindStringSubmatch(base); m != nil {
		base = m[1]
		next = 2
		if m[2] != "" {
			n, _ := strconv.Atoi(m[2])
			next = n + 1
		}
	}

	for n := next; ; n++ {
		candidate := base + "_duplicate" + ext
		if n > 1 {
			candidate = base + "_duplicate_" + strconv.Itoa(n) + ext
		}
		if !Occupied(scanner.Join(dir, candidate)) {
			return candidate
		}
	}
}
