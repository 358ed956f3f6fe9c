package chain

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormat(t *testing.T) {
	got := Format("mobile.txt", "mbl.txt")
	want := "Dry-run: 'mobile.txt' -> 'mbl.txt'"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{"canonical record", "Dry-run: 'mobile.txt' -> 'mbl.txt'", "mbl.txt", true},
		{"surrounding whitespace", "   Dry-run: 'a' -> 'b c.txt'  \n", "b c.txt", true},
		{"unquoted target", "Dry-run: a -> b.txt", "b.txt", true},
		{"only one quote layer removed", "Dry-run: 'a' -> ''b''", "'b'", true},
		{"mismatched quotes kept", "Dry-run: 'a' -> 'b\"", "'b\"", true},
		{"last arrow wins", "Dry-run: 'a' -> 'b' -> 'c'", "c", true},
		{"plain path", "photos/IMG-001.jpg", "", false},
		{"arrow without prefix", "a -> b", "", false},
		{"prefix without arrow", "Dry-run: nothing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Target(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Target(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Target(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	rec, ok := Parse("Dry-run: 'dir/Report.TXT' -> 'dir/report.TXT'")
	if !ok {
		t.Fatal("Parse() did not recognise a record")
	}
	if rec.OldPath != "dir/Report.TXT" || rec.NewPath != "dir/report.TXT" {
		t.Errorf("Parse() = %+v", rec)
	}
	if rec.String() != "Dry-run: 'dir/Report.TXT' -> 'dir/report.TXT'" {
		t.Errorf("String() = %q", rec.String())
	}

	rec, ok = Parse("'x' -> 'y.txt' Dry-run:")
	if !ok || rec.NewPath != "'y.txt' Dry-run:" || rec.OldPath != "" {
		t.Errorf("prefix after the arrow: Parse() = %+v, %v", rec, ok)
	}
}

// genSafePath generates paths without quotes or arrows, the subset the
// record format can carry.
func genSafePath() gopter.Gen {
	return gen.AnyString().Map(func(s string) string {
		s = strings.Map(func(r rune) rune {
			switch r {
			case '\'', '"', '\n', '\r':
				return -1
			}
			return r
		}, s)
		s = strings.ReplaceAll(s, Arrow, "")
		return strings.TrimSpace(s)
	}).SuchThat(func(s string) bool {
		return s != "" && !strings.Contains(s, Arrow)
	})
}

func TestRecordRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("Target recovers the new path of a formatted record", prop.ForAll(
		func(oldPath, newPath string) bool {
			got, ok := Target(Format(oldPath, newPath))
			return ok && got == newPath
		},
		genSafePath(),
		genSafePath(),
	))

	properties.Property("Parse recovers both paths of a formatted record", prop.ForAll(
		func(oldPath, newPath string) bool {
			rec, ok := Parse(Format(oldPath, newPath))
			return ok && rec.NewPath == newPath && rec.OldPath == oldPath
		},
		genSafePath(),
		genSafePath(),
	))

	properties.TestingRun(t)
}
