// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GenerateCUE renders cfg as a config file accepted by the schema. Empty
// optional values are left out.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// droidforge configuration\n")
	sb.WriteString("// Layered as: defaults, global config.cue, <module>/droidforge.cue, DROIDFORGE_* env.\n\n")

	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)
	if cfg.BuildDir != "" {
		fmt.Fprintf(&sb, "build_dir: %q\n", cfg.BuildDir)
	}

	if paths := cfg.Paths.PathOverrides(); len(paths) > 0 {
		sb.WriteString("\npaths: {\n")
		keys := make([]string, 0, len(paths))
		for k := range paths {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\t%s: %q\n", k, paths[k])
		}
		sb.WriteString("}\n")
	}

	if len(cfg.Libraries) > 0 {
		sb.WriteString("\nlibraries: ")
		writeList(&sb, cfg.Libraries)
	}

	if cfg.Tools.ManifestMerger != "" || cfg.Tools.Apksigner != "" {
		sb.WriteString("\ntools: {\n")
		writeOptional(&sb, "manifest_merger", cfg.Tools.ManifestMerger)
		writeOptional(&sb, "apksigner", cfg.Tools.Apksigner)
		sb.WriteString("}\n")
	}

	s := cfg.Signing
	if s != (SigningConfig{}) {
		sb.WriteString("\nsigning: {\n")
		writeOptional(&sb, "key_file", s.KeyFile)
		writeOptional(&sb, "cert_file", s.CertFile)
		writeOptional(&sb, "store_file", s.StoreFile)
		writeOptional(&sb, "key_alias", s.KeyAlias)
		writeOptional(&sb, "store_password", s.StorePassword)
		writeOptional(&sb, "key_password", s.KeyPassword)
		sb.WriteString("}\n")
	}

	sb.WriteString("\nwatch: {\n")
	writeOptional(&sb, "debounce", cfg.Watch.Debounce)
	if len(cfg.Watch.Patterns) > 0 {
		sb.WriteString("\tpatterns: ")
		writeList(&sb, cfg.Watch.Patterns)
	}
	sb.WriteString("}\n")

	return sb.String()
}

func writeOptional(sb *strings.Builder, key, value string) {
	if value != "" {
		fmt.Fprintf(sb, "\t%s: %q\n", key, value)
	}
}

func writeList(sb *strings.Builder, items []string) {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	sb.WriteString("[" + strings.Join(quoted, ", ") + "]\n")
}

// Redacted returns a copy of cfg with passwords masked, for display.
func Redacted(cfg *Config) *Config {
	c := *cfg
	c.Libraries = slices.Clone(cfg.Libraries)
	c.Watch.Patterns = slices.Clone(cfg.Watch.Patterns)
	if c.Signing.StorePassword != "" {
		c.Signing.StorePassword = "********"
	}
	if c.Signing.KeyPassword != "" {
		c.Signing.KeyPassword = "********"
	}
	return &c
}

// MarshalTOML renders cfg as TOML.
func MarshalTOML(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return out, nil
}
