// Package config builds the run configuration for renamer from defaults,
// environment variables, an optional JSON preset and command-line flags.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"renamer/internal/executor"
	"renamer/internal/matcher"
	"renamer/internal/output"
	"renamer/internal/transform"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	InvalidEnv      ConfigErrorType = "INVALID_ENV"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred while building the configuration.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		if e.Message != "" {
			return fmt.Sprintf("cannot read preset file %s: %s", e.Path, e.Message)
		}
		return fmt.Sprintf("preset file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in preset file %s: %s", e.Path, e.Message)
	case InvalidEnv:
		return fmt.Sprintf("invalid environment: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	Debounce        time.Duration `json:"-"`
	StableThreshold time.Duration `json:"-"`
	IgnorePatterns  []string      `json:"ignorePatterns,omitempty"`
}

// Configuration holds all settings for one renamer run. The JSON tags are
// the keys a preset file may set; everything else comes from flags or the
// environment.
type Configuration struct {
	Match        string  `json:"match"`
	Replace      *string `json:"replace,omitempty"` // nil when no replacement was given
	ChangeCase   string  `json:"changeCase"`
	RemoveVowels bool    `json:"removeVowels"`
	NumberStart  int     `json:"numberStart"`
	OnConflict   string  `json:"onConflict"`

	Watch WatchSettings `json:"watch"`

	DryRun      bool   `json:"-"`
	FromFile    string `json:"-"`
	IgnoreStdin bool   `json:"-"`
	Verbose     bool   `json:"-"`
	Quiet       bool   `json:"-"`
	LogFile     string `json:"-"`
	LogMaxSize  int64  `json:"-"` // Rotate the log file beyond this many bytes (0: never)
	PresetFile  string `json:"-"`
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return &Configuration{
		NumberStart: 1,
		OnConflict:  string(executor.ConflictFail),
		LogMaxSize:  10 << 20,
		Watch: WatchSettings{
			Debounce:        2 * time.Second,
			StableThreshold: time.Second,
		},
	}
}

// Environment holds the settings renamer reads from environment variables.
type Environment struct {
	ConfigFile    string        `env:"RENAMER_CONFIG"`
	Verbose       bool          `env:"RENAMER_VERBOSE"`
	Quiet         bool          `env:"RENAMER_QUIET"`
	LogFile       string        `env:"RENAMER_LOG_FILE"`
	LogMaxSize    int64         `env:"RENAMER_LOG_MAX_SIZE" envDefault:"10485760"`
	OnConflict    string        `env:"RENAMER_ON_CONFLICT"`
	WatchDebounce time.Duration `env:"RENAMER_WATCH_DEBOUNCE" envDefault:"2s"`
	WatchStable   time.Duration `env:"RENAMER_WATCH_STABLE" envDefault:"1s"`
}

// ParseEnv loads the Environment from the process environment.
func ParseEnv() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, &ConfigError{Type: InvalidEnv, Message: err.Error()}
	}
	return e, nil
}

// ApplyEnv overlays environment settings on c.
func (c *Configuration) ApplyEnv(e Environment) {
	if e.ConfigFile != "" {
		c.PresetFile = e.ConfigFile
	}
	c.Verbose = c.Verbose || e.Verbose
	c.Quiet = c.Quiet || e.Quiet
	if e.LogFile != "" {
		c.LogFile = e.LogFile
	}
	c.LogMaxSize = e.LogMaxSize
	if e.OnConflict != "" {
		c.OnConflict = e.OnConflict
	}
	c.Watch.Debounce = e.WatchDebounce
	c.Watch.StableThreshold = e.WatchStable
}

// LoadPreset overlays the keys present in the JSON file at path on c.
// Unknown keys are rejected so a typo does not pass silently.
func (c *Configuration) LoadPreset(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigError{Type: FileNotFound, Path: path}
		}
		return &ConfigError{Type: FileNotFound, Path: path, Message: err.Error()}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return &ConfigError{Type: InvalidJSON, Path: path, Message: err.Error()}
	}
	return nil
}

// Validate returns the first validation error as a *ConfigError.
func (c *Configuration) Validate() error {
	result := ValidateConfig(c)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return &ConfigError{
		Type:    ValidationError,
		Message: first.Field + ": " + first.Message,
	}
}

// HasReplacement reports whether a replacement was given, even an empty one.
func (c *Configuration) HasReplacement() bool {
	return c.Replace != nil
}

// SetReplace records an explicit replacement.
func (c *Configuration) SetReplace(s string) {
	c.Replace = &s
}

// BuildSpec validates c and returns the transform spec it describes.
func (c *Configuration) BuildSpec() (transform.Spec, error) {
	if err := c.Validate(); err != nil {
		return transform.Spec{}, err
	}

	pattern, err := matcher.Compile(c.Match)
	if err != nil {
		return transform.Spec{}, &ConfigError{Type: ValidationError, Message: err.Error()}
	}
	mode, err := transform.ParseCaseMode(c.ChangeCase)
	if err != nil {
		return transform.Spec{}, &ConfigError{Type: ValidationError, Message: err.Error()}
	}

	spec := transform.Spec{
		Match:        pattern,
		Case:         mode,
		RemoveVowels: c.RemoveVowels,
	}
	if c.Replace != nil {
		spec.Replacement = *c.Replace
		spec.HasReplacement = true
	}
	return spec, nil
}

// ConflictPolicy returns the parsed conflict policy. Call after Validate.
func (c *Configuration) ConflictPolicy() executor.ConflictPolicy {
	policy, err := executor.ParseConflictPolicy(c.OnConflict)
	if err != nil {
		return executor.ConflictFail
	}
	return policy
}

// OutputLevel maps the verbosity switches to an output level.
func (c *Configuration) OutputLevel() output.Level {
	switch {
	case c.Quiet:
		return output.LevelError
	case c.Verbose:
		return output.LevelDebug
	default:
		return output.LevelInfo
	}
}
