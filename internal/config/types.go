// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultDebounce is the watch debounce used when none is configured.
	DefaultDebounce = "500ms"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	// DefaultWatchPatterns select the files whose changes trigger a rebuild.
	DefaultWatchPatterns = []string{
		"build.gradle",
		"build.gradle.kts",
		"droidforge.cue",
		"src/**/AndroidManifest.xml",
	}
)

type (
	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field error found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the effective droidforge configuration.
	Config struct {
		LogLevel  LogLevel      `json:"log_level" mapstructure:"log_level" toml:"log_level"`
		Verbose   bool          `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		BuildDir  string        `json:"build_dir" mapstructure:"build_dir" toml:"build_dir"`
		Paths     PathsConfig   `json:"paths" mapstructure:"paths" toml:"paths"`
		Libraries []string      `json:"libraries" mapstructure:"libraries" toml:"libraries"`
		Tools     ToolsConfig   `json:"tools" mapstructure:"tools" toml:"tools"`
		Signing   SigningConfig `json:"signing" mapstructure:"signing" toml:"signing"`
		Watch     WatchConfig   `json:"watch" mapstructure:"watch" toml:"watch"`
	}

	// PathsConfig overrides conventional module locations. Relative paths
	// are resolved against the module root.
	PathsConfig struct {
		JavaDirectory             string `json:"java_directory,omitempty" mapstructure:"java_directory" toml:"java_directory,omitempty"`
		KotlinDirectory           string `json:"kotlin_directory,omitempty" mapstructure:"kotlin_directory" toml:"kotlin_directory,omitempty"`
		AndroidResourcesDirectory string `json:"android_resources_directory,omitempty" mapstructure:"android_resources_directory" toml:"android_resources_directory,omitempty"`
		AssetsDirectory           string `json:"assets_directory,omitempty" mapstructure:"assets_directory" toml:"assets_directory,omitempty"`
		NativeLibrariesDirectory  string `json:"native_libraries_directory,omitempty" mapstructure:"native_libraries_directory" toml:"native_libraries_directory,omitempty"`
		AndroidManifestFile       string `json:"android_manifest_file,omitempty" mapstructure:"android_manifest_file" toml:"android_manifest_file,omitempty"`
	}

	// ToolsConfig holds the external tool command lines.
	ToolsConfig struct {
		ManifestMerger string `json:"manifest_merger" mapstructure:"manifest_merger" toml:"manifest_merger"`
		Apksigner      string `json:"apksigner" mapstructure:"apksigner" toml:"apksigner"`
	}

	// SigningConfig selects the signer identity.
	SigningConfig struct {
		KeyFile       string `json:"key_file,omitempty" mapstructure:"key_file" toml:"key_file,omitempty"`
		CertFile      string `json:"cert_file,omitempty" mapstructure:"cert_file" toml:"cert_file,omitempty"`
		StoreFile     string `json:"store_file,omitempty" mapstructure:"store_file" toml:"store_file,omitempty"`
		KeyAlias      string `json:"key_alias,omitempty" mapstructure:"key_alias" toml:"key_alias,omitempty"`
		StorePassword string `json:"store_password,omitempty" mapstructure:"store_password" toml:"store_password,omitempty"`
		KeyPassword   string `json:"key_password,omitempty" mapstructure:"key_password" toml:"key_password,omitempty"`
	}

	// WatchConfig configures droidforge watch.
	WatchConfig struct {
		Debounce string   `json:"debounce" mapstructure:"debounce" toml:"debounce"`
		Patterns []string `json:"patterns" mapstructure:"patterns" toml:"patterns"`
	}
)

func (l LogLevel) String() string { return string(l) }

// Validate returns an error if l is not a known level.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes ErrInvalidConfig and each field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks constraints the schema cannot express: the duration
// parses and every tool command splits into at least one word.
func (c *Config) Validate() error {
	var errs []error
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Tools.ManifestMergerCommand(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Tools.ApksignerCommand(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// PathOverrides returns the configured paths keyed by their config name.
// Unset paths are omitted.
func (p PathsConfig) PathOverrides() map[string]string {
	out := make(map[string]string)
	for k, v := range map[string]string{
		"java_directory":              p.JavaDirectory,
		"kotlin_directory":            p.KotlinDirectory,
		"android_resources_directory": p.AndroidResourcesDirectory,
		"assets_directory":            p.AssetsDirectory,
		"native_libraries_directory":  p.NativeLibrariesDirectory,
		"android_manifest_file":       p.AndroidManifestFile,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// ManifestMergerCommand splits the merger command line. Empty means the
// built-in default.
func (t ToolsConfig) ManifestMergerCommand() ([]string, error) {
	return splitCommand("tools.manifest_merger", t.ManifestMerger)
}

// ApksignerCommand splits the apksigner command line. Empty means the
// built-in default.
func (t ToolsConfig) ApksignerCommand() ([]string, error) {
	return splitCommand("tools.apksigner", t.Apksigner)
}

func splitCommand(key, line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	fields, err := shell.Fields(line, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: empty command", key)
	}
	return fields, nil
}

// DebounceDuration parses Debounce, defaulting to DefaultDebounce.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	s := w.Debounce
	if s == "" {
		s = DefaultDebounce
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.debounce: must be positive, got %s", s)
	}
	return d, nil
}
