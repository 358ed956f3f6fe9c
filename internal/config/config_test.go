package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"renamer/internal/executor"
	"renamer/internal/output"
	"renamer/internal/transform"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write preset: %v", err)
	}
	return path
}

// loadPreset layers the preset at path over the defaults and validates.
func loadPreset(path string) (*Configuration, error) {
	cfg := Default()
	if err := cfg.LoadPreset(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func TestLoad_Preset(t *testing.T) {
	path := writePreset(t, `{
		"match": "IMG-\\d+",
		"replace": "IMG_{num4}",
		"changeCase": "lower",
		"removeVowels": true,
		"numberStart": 7,
		"onConflict": "suffix",
		"watch": {"ignorePatterns": ["*.crdownload"]}
	}`)

	cfg, err := loadPreset(path)
	if err != nil {
		t.Fatalf("loadPreset() error: %v", err)
	}

	if cfg.Match != `IMG-\d+` || !cfg.HasReplacement() || *cfg.Replace != "IMG_{num4}" {
		t.Errorf("unexpected pattern settings %+v", cfg)
	}
	if cfg.ChangeCase != "lower" || !cfg.RemoveVowels || cfg.NumberStart != 7 {
		t.Errorf("unexpected transform settings %+v", cfg)
	}
	if cfg.ConflictPolicy() != executor.ConflictSuffix {
		t.Errorf("ConflictPolicy() = %s", cfg.ConflictPolicy())
	}
	if len(cfg.Watch.IgnorePatterns) != 1 || cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("unexpected watch settings %+v", cfg.Watch)
	}
}

func TestLoadPreset_KeepsUnsetKeys(t *testing.T) {
	cfg := Default()
	cfg.ChangeCase = "upper"

	if err := cfg.LoadPreset(writePreset(t, `{"removeVowels": true}`)); err != nil {
		t.Fatalf("LoadPreset() error: %v", err)
	}
	if cfg.ChangeCase != "upper" || !cfg.RemoveVowels || cfg.NumberStart != 1 {
		t.Errorf("preset must only overlay the keys it sets, got %+v", cfg)
	}
	if cfg.HasReplacement() {
		t.Error("absent replace key must not count as a replacement")
	}
}

func TestLoadPreset_EmptyReplacementCounts(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadPreset(writePreset(t, `{"match": "_draft", "replace": ""}`)); err != nil {
		t.Fatalf("LoadPreset() error: %v", err)
	}
	spec, err := cfg.BuildSpec()
	if err != nil {
		t.Fatalf("BuildSpec() error: %v", err)
	}
	if !spec.HasReplacement || spec.Replacement != "" {
		t.Errorf("explicit empty replacement lost: %+v", spec)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantType ConfigErrorType
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.json") },
			wantType: FileNotFound,
		},
		{
			name:     "malformed JSON",
			path:     func(t *testing.T) string { return writePreset(t, `{"match": `) },
			wantType: InvalidJSON,
		},
		{
			name:     "unknown key",
			path:     func(t *testing.T) string { return writePreset(t, `{"mtach": "x"}`) },
			wantType: InvalidJSON,
		},
		{
			name:     "replace without match",
			path:     func(t *testing.T) string { return writePreset(t, `{"replace": "x"}`) },
			wantType: ValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadPreset(tt.path(t))
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", cfgErr.Type, tt.wantType)
			}
		})
	}
}

func TestConfigError_Messages(t *testing.T) {
	tests := []struct {
		err  *ConfigError
		want string
	}{
		{&ConfigError{Type: FileNotFound, Path: "p.json"}, "preset file not found: p.json"},
		{&ConfigError{Type: FileNotFound, Path: "p.json", Message: "permission denied"}, "cannot read preset file p.json: permission denied"},
		{&ConfigError{Type: InvalidJSON, Path: "p.json", Message: "bad"}, "invalid JSON in preset file p.json: bad"},
		{&ConfigError{Type: InvalidEnv, Message: "bad"}, "invalid environment: bad"},
		{&ConfigError{Type: ValidationError, Message: "bad"}, "configuration validation error: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("RENAMER_CONFIG", "/etc/renamer.json")
	t.Setenv("RENAMER_VERBOSE", "true")
	t.Setenv("RENAMER_LOG_FILE", "/tmp/renamer.log")
	t.Setenv("RENAMER_ON_CONFLICT", "suffix")
	t.Setenv("RENAMER_WATCH_DEBOUNCE", "500ms")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv() error: %v", err)
	}

	cfg := Default()
	cfg.ApplyEnv(e)

	if cfg.PresetFile != "/etc/renamer.json" || !cfg.Verbose || cfg.LogFile != "/tmp/renamer.log" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LogMaxSize != 10<<20 {
		t.Errorf("LogMaxSize = %d, want the 10MiB default", cfg.LogMaxSize)
	}
	if cfg.OnConflict != "suffix" {
		t.Errorf("OnConflict = %s", cfg.OnConflict)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond || cfg.Watch.StableThreshold != time.Second {
		t.Errorf("unexpected watch settings %+v", cfg.Watch)
	}
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv("RENAMER_WATCH_STABLE", "soon")

	_, err := ParseEnv()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != InvalidEnv {
		t.Fatalf("expected InvalidEnv, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "invalid environment:") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestBuildSpec(t *testing.T) {
	cfg := Default()
	cfg.Match = `l`
	cfg.SetReplace("w")
	cfg.ChangeCase = "title"
	cfg.RemoveVowels = true

	spec, err := cfg.BuildSpec()
	if err != nil {
		t.Fatalf("BuildSpec() error: %v", err)
	}
	if spec.Match == nil || spec.Match.String() != "l" || spec.Replacement != "w" || !spec.HasReplacement {
		t.Errorf("unexpected substitution settings %+v", spec)
	}
	if spec.Case != transform.CaseProper || !spec.RemoveVowels {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestBuildSpec_NoMatchMeansNilPattern(t *testing.T) {
	spec, err := Default().BuildSpec()
	if err != nil {
		t.Fatalf("BuildSpec() error: %v", err)
	}
	if spec.Match != nil || spec.HasReplacement {
		t.Errorf("expected an empty spec, got %+v", spec)
	}
}

func TestOutputLevel(t *testing.T) {
	tests := []struct {
		verbose, quiet bool
		want           output.Level
	}{
		{false, false, output.LevelInfo},
		{true, false, output.LevelDebug},
		{false, true, output.LevelError},
	}
	for _, tt := range tests {
		cfg := &Configuration{Verbose: tt.verbose, Quiet: tt.quiet}
		if got := cfg.OutputLevel(); got != tt.want {
			t.Errorf("OutputLevel(verbose=%v, quiet=%v) = %s, want %s", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}
