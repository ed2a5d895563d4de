// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "droidforge"
	// ConfigFileName is the global config file name inside ConfigDir.
	ConfigFileName = "config.cue"
	// ProjectFileName is the per-module config file in the module root.
	ProjectFileName = "droidforge.cue"
	// EnvPrefix prefixes environment overrides: DROIDFORGE_BUILD_DIR,
	// DROIDFORGE_SIGNING_KEY_FILE, ...
	EnvPrefix = "DROIDFORGE"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns <user config dir>/droidforge.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelInfo,
		BuildDir: "build",
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Patterns: append([]string(nil), DefaultWatchPatterns...),
		},
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_level", string(d.LogLevel))
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("build_dir", d.BuildDir)
	for _, key := range []string{
		"java_directory", "kotlin_directory", "android_resources_directory",
		"assets_directory", "native_libraries_directory", "android_manifest_file",
	} {
		v.SetDefault("paths."+key, "")
	}
	v.SetDefault("libraries", d.Libraries)
	v.SetDefault("tools.manifest_merger", d.Tools.ManifestMerger)
	v.SetDefault("tools.apksigner", d.Tools.Apksigner)
	for _, key := range []string{"key_file", "cert_file", "store_file", "key_alias", "store_password", "key_password"} {
		v.SetDefault("signing."+key, "")
	}
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.patterns", d.Watch.Patterns)
}

// loadWithOptions layers defaults, the global file, the project file and the
// environment. An explicit ConfigFilePath replaces both files.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, []string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var files []string
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'droidforge config dump' to see the default configuration").
				Wrap(fmt.Errorf("%w: config file not found: %s", issue.ErrFileSystem, opts.ConfigFilePath)).
				BuildError()
		}
		files = append(files, opts.ConfigFilePath)
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, nil, err
		}
		for _, candidate := range []string{
			filepath.Join(cfgDir, ConfigFileName),
			projectFile(opts.ModuleRoot),
		} {
			if candidate != "" && fileExists(candidate) {
				files = append(files, candidate)
			}
		}
	}

	for _, path := range files {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the schema shown by 'droidforge config dump'").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check DROIDFORGE_* environment variables as well as config files").
			Wrap(err).
			BuildError()
	}
	return &cfg, files, nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

func projectFile(moduleRoot string) string {
	if moduleRoot == "" {
		return ""
	}
	return filepath.Join(moduleRoot, ProjectFileName)
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// v. Fields are optional, so the decode is non-concrete and yields only the
// keys the file sets.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to read config file: %w", issue.ErrFileSystem, err)
	}

	res, err := cueutil.Decode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the defaults to the global config file unless
// it exists, and returns its path.
func CreateDefaultConfig(configDirPath string) (string, error) {
	cfgDir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName)
	if fileExists(cfgPath) {
		return cfgPath, nil
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, nil
}
