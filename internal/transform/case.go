package transform

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseMode selects the case transformation applied to base names.
type CaseMode string

const (
	CaseNone   CaseMode = ""
	CaseUpper  CaseMode = "upper"
	CaseLower  CaseMode = "lower"
	CaseProper CaseMode = "proper"
	// CaseTitle is accepted as an alias of CaseProper.
	CaseTitle CaseMode = "title"
)

// CaseModes lists the values accepted on the command line.
func CaseModes() []string {
	return []string{string(CaseUpper), string(CaseLower), string(CaseProper)}
}

// ParseCaseMode validates a case mode name.
func ParseCaseMode(s string) (CaseMode, error) {
	switch mode := CaseMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case CaseNone, CaseUpper, CaseLower, CaseProper:
		return mode, nil
	case CaseTitle:
		return CaseProper, nil
	default:
		return CaseNone, fmt.Errorf("unknown case mode %q (want one of %s)", s, strings.Join(CaseModes(), ", "))
	}
}

// ChangeCase applies mode to s. Unknown modes leave s untouched.
//
// Upper followed by lower only restores the input for text without
// locale-special casing: "ß" uppercases to "SS" and does not come back.
func ChangeCase(s string, mode CaseMode) string {
	switch mode {
	case CaseUpper:
		return cases.Upper(language.Und).String(s)
	case CaseLower:
		return cases.Lower(language.Und).String(s)
	case CaseProper, CaseTitle:
		return properCase(s)
	default:
		return s
	}
}

// properCase title-cases every whitespace-delimited word: the first rune is
// mapped to title case and the rest of the word is lowercased. Whitespace is
// preserved as is.
func properCase(s string) string {
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}

		end := i + size
		for end < len(s) {
			next, nsize := utf8.DecodeRuneInString(s[end:])
			if unicode.IsSpace(next) {
				break
			}
			end += nsize
		}

		b.WriteRune(unicode.ToTitle(r))
		b.WriteString(lower.String(s[i+size : end]))
		i = end
	}
	return b.String()
}

// RemoveVowels deletes every a, e, i, o, u in either case. Accented vowels
// are not normalised and stay in place.
func RemoveVowels(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			return -1
		}
		return r
	}, s)
}
