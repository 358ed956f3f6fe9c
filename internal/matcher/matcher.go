// Package matcher decides whether a candidate's file name passes the match filter.
package matcher

import (
	"fmt"
	"regexp"
)

// Compile compiles a match pattern. An empty pattern yields a nil matcher,
// which lets every name through.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Matches reports whether pattern is found anywhere in name.
// The search is unanchored; a nil pattern matches every name.
func Matches(name string, pattern *regexp.Regexp) bool {
	if pattern == nil {
		return true
	}
	return pattern.MatchString(name)
}
