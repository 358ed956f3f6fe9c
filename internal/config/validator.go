package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"renamer/internal/executor"
	"renamer/internal/matcher"
	"renamer/internal/transform"
)

// anyPlaceholder matches every {numX} form, valid or not.
var anyPlaceholder = regexp.MustCompile(`\{num(\d*)\}`)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Setting with the issue (e.g., "replace")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

func (r *ValidationResult) add(issues []ConfigValidationError) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// ValidateConfig checks the configuration and returns every finding.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
	}

	result.add(ValidateTransform(cfg))
	result.add(ValidatePolicies(cfg))

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateTransform checks the settings that make up the transform spec.
func ValidateTransform(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError

	if cfg.Replace != nil && cfg.Match == "" {
		issues = append(issues, ConfigValidationError{
			Field:    "replace",
			Message:  "a replacement requires a match pattern",
			Severity: SeverityError,
		})
	}

	if _, err := matcher.Compile(cfg.Match); err != nil {
		issues = append(issues, ConfigValidationError{
			Field:    "match",
			Message:  err.Error(),
			Severity: SeverityError,
		})
	}

	if _, err := transform.ParseCaseMode(cfg.ChangeCase); err != nil {
		issues = append(issues, ConfigValidationError{
			Field:    "changeCase",
			Message:  err.Error(),
			Severity: SeverityError,
		})
	}

	usesNumbering := false
	if cfg.Replace != nil {
		usesNumbering = transform.New(transform.Spec{Replacement: *cfg.Replace, HasReplacement: true}).UsesNumbering()
		for _, m := range anyPlaceholder.FindAllStringSubmatch(*cfg.Replace, -1) {
			if w := m[1]; len(w) > 1 || w == "0" {
				issues = append(issues, ConfigValidationError{
					Field:    "replace",
					Message:  fmt.Sprintf("placeholder %s: width must be a single digit 1-9", m[0]),
					Severity: SeverityError,
				})
			}
		}
	}

	if cfg.NumberStart < 0 {
		issues = append(issues, ConfigValidationError{
			Field:    "numberStart",
			Message:  fmt.Sprintf("must not be negative, got %d", cfg.NumberStart),
			Severity: SeverityError,
		})
	} else if cfg.NumberStart != 1 && !usesNumbering {
		issues = append(issues, ConfigValidationError{
			Field:    "numberStart",
			Message:  "has no effect without a {num} placeholder in the replacement",
			Severity: SeverityWarning,
		})
	}

	if cfg.Match == "" && cfg.ChangeCase == "" && !cfg.RemoveVowels {
		issues = append(issues, ConfigValidationError{
			Field:    "transform",
			Message:  "no transformation configured; every name stays unchanged",
			Severity: SeverityWarning,
		})
	}

	return issues
}

// ValidatePolicies checks conflict handling, verbosity and watch settings.
func ValidatePolicies(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError

	if _, err := executor.ParseConflictPolicy(cfg.OnConflict); err != nil {
		issues = append(issues, ConfigValidationError{
			Field:    "onConflict",
			Message:  err.Error(),
			Severity: SeverityError,
		})
	}

	if cfg.Verbose && cfg.Quiet {
		issues = append(issues, ConfigValidationError{
			Field:    "verbose",
			Message:  "verbose and quiet cannot both be set",
			Severity: SeverityError,
		})
	}

	if cfg.LogMaxSize < 0 {
		issues = append(issues, ConfigValidationError{
			Field:    "logMaxSize",
			Message:  "must not be negative",
			Severity: SeverityError,
		})
	}

	if cfg.Watch.Debounce < 0 {
		issues = append(issues, ConfigValidationError{
			Field:    "watch.debounce",
			Message:  "must not be negative",
			Severity: SeverityError,
		})
	}
	if cfg.Watch.StableThreshold < 0 {
		issues = append(issues, ConfigValidationError{
			Field:    "watch.stableThreshold",
			Message:  "must not be negative",
			Severity: SeverityError,
		})
	}

	for i, pattern := range cfg.Watch.IgnorePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			issues = append(issues, ConfigValidationError{
				Field:    fmt.Sprintf("watch.ignorePatterns[%d]", i),
				Message:  fmt.Sprintf("invalid glob %q: %v", pattern, err),
				Severity: SeverityError,
			})
		}
	}

	return issues
}
