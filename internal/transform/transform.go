// Package transform derives new file names from old ones.
//
// The pipeline runs its steps in a fixed order:
//
//  1. substitution of the match pattern on the full name (base+extension),
//     with optional {num}/{numN} renumbering placeholders in the replacement
//  2. case change of the base name
//  3. vowel removal from the base name
//
// Everything here is pure: no step looks at the filesystem.
package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"renamer/internal/matcher"
)

// placeholderPattern matches {num} and {numN} where N is the zero-pad width.
var placeholderPattern = regexp.MustCompile(`\{num([1-9]?)\}`)

// Spec holds the transformations configured for one run.
type Spec struct {
	Match          *regexp.Regexp // nil when no match pattern is set
	Replacement    string         // regexp template, may contain {num}/{numN}
	HasReplacement bool           // true when a replacement was given, even an empty one
	Case           CaseMode
	RemoveVowels   bool
}

// Pipeline applies a Spec. It is safe to share because it never mutates the Spec.
type Pipeline struct {
	spec Spec
}

// New creates a Pipeline for spec.
func New(spec Spec) *Pipeline {
	return &Pipeline{spec: spec}
}

// Spec returns the pipeline's configuration.
func (p *Pipeline) Spec() Spec {
	return p.spec
}

// Substitutes reports whether the substitution step applies to name.
func (p *Pipeline) Substitutes(name string) bool {
	return p.spec.Match != nil && p.spec.HasReplacement && matcher.Matches(name, p.spec.Match)
}

// UsesNumbering reports whether the replacement contains renumbering placeholders.
func (p *Pipeline) UsesNumbering() bool {
	return p.spec.HasReplacement && placeholderPattern.MatchString(p.spec.Replacement)
}

// Transform returns the new base name and extension for a file.
// seq is the value substituted for {num} placeholders.
func (p *Pipeline) Transform(base, ext string, seq int) (string, string) {
	if full := base + ext; p.Substitutes(full) {
		full = p.substitute(full, seq)
		base, ext = SplitName(full)
	}

	if p.spec.Case != CaseNone {
		base = ChangeCase(base, p.spec.Case)
	}

	if p.spec.RemoveVowels {
		base = RemoveVowels(base)
	}

	return base, ext
}

// substitute replaces every match in name. Each occurrence expands the
// replacement on its own, and placeholders are inserted after capture
// references were resolved, so "$1{num}" reads group 1 followed by seq.
func (p *Pipeline) substitute(name string, seq int) string {
	re := p.spec.Match
	literals, widths := splitPlaceholders(p.spec.Replacement)

	var out []byte
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(name, -1) {
		out = append(out, name[last:m[0]]...)
		for i, lit := range literals {
			out = re.ExpandString(out, braceGroupRefs(lit), name, m)
			if i < len(widths) {
				out = append(out, formatSeq(seq, widths[i])...)
			}
		}
		last = m[1]
	}
	return string(append(out, name[last:]...))
}

// splitPlaceholders cuts template at its {num}/{numN} placeholders. It returns
// the literal pieces around them and the width of each placeholder.
func splitPlaceholders(template string) ([]string, []string) {
	var literals, widths []string
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(template, -1) {
		literals = append(literals, template[last:m[0]])
		widths = append(widths, template[m[2]:m[3]])
		last = m[1]
	}
	return append(literals, template[last:]), widths
}

// braceGroupRefs rewrites numbered references such as $1 as ${1}, so the
// group number ends at its last digit: "$1_x" means group 1 followed by
// "_x". "$$" stays a literal dollar sign.
func braceGroupRefs(template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next == '$':
			b.WriteString("$$")
			i++
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			b.WriteString("${" + template[i+1:j] + "}")
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Apply transforms the file name of path and returns the new path.
// The directory part is carried over verbatim.
func (p *Pipeline) Apply(path string, seq int) string {
	dir, base, ext := SplitPath(path)
	base, ext = p.Transform(base, ext, seq)
	return JoinPath(dir, base, ext)
}

// formatSeq renders seq for a placeholder of the given width.
func formatSeq(seq int, width string) string {
	if width == "" {
		return strconv.Itoa(seq)
	}
	return fmt.Sprintf("%0"+width+"d", seq)
}
