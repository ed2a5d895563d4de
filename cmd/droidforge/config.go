// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droidforge/droidforge/internal/config"
)

const (
	formatText = "text"
	formatTOML = "toml"
	formatCUE  = "cue"
)

// newConfigCommand creates the `droidforge config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage droidforge configuration",
		Long: `Manage droidforge configuration.

Configuration is layered, later layers winning:
  1. built-in defaults
  2. the global file (Linux: ~/.config/droidforge/config.cue,
     macOS: ~/Library/Application Support/droidforge/config.cue,
     Windows: %APPDATA%\droidforge\config.cue)
  3. droidforge.cue in the module directory
  4. DROIDFORGE_* environment variables (DROIDFORGE_SIGNING_KEY_FILE, ...)

--config <file> replaces layers 2 and 3.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (passwords masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), flags)
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			return showConfig(cmd.OutOrStdout(), s, format)
		},
	}
	show.Flags().StringVar(&format, "format", formatText, "output format: text, toml or cue")
	cfgCmd.AddCommand(show)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), flags)
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(s.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the global configuration file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("✓ config file:"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the global configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, config.ConfigFileName))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, s *session, format string) error {
	cfg := config.Redacted(s.cfg)
	switch strings.ToLower(format) {
	case formatTOML:
		out, err := config.MarshalTOML(cfg)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case formatCUE:
		fmt.Fprint(w, config.GenerateCUE(cfg))
		return nil
	case formatText:
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatTOML, formatCUE)
	}

	files := make([]field, 0, len(s.files))
	for _, f := range s.files {
		files = append(files, field{"file", f})
	}
	if len(files) == 0 {
		files = append(files, field{"file", "<defaults only>"})
	}

	sections := []section{
		{title: "Sources", fields: files},
		{title: "General", fields: []field{
			{"log_level", cfg.LogLevel.String()},
			{"verbose", fmt.Sprint(cfg.Verbose)},
			{"build_dir", cfg.BuildDir},
			{"libraries", orNone(strings.Join(cfg.Libraries, ", "))},
		}},
		{title: "Paths", fields: pathFields(cfg.Paths)},
		{title: "Tools", fields: []field{
			{"manifest_merger", orNone(cfg.Tools.ManifestMerger)},
			{"apksigner", orNone(cfg.Tools.Apksigner)},
		}},
		{title: "Signing", fields: []field{
			{"key_file", orNone(cfg.Signing.KeyFile)},
			{"cert_file", orNone(cfg.Signing.CertFile)},
			{"store_file", orNone(cfg.Signing.StoreFile)},
			{"key_alias", orNone(cfg.Signing.KeyAlias)},
			{"store_password", orNone(cfg.Signing.StorePassword)},
			{"key_password", orNone(cfg.Signing.KeyPassword)},
		}},
		{title: "Watch", fields: []field{
			{"debounce", cfg.Watch.Debounce},
			{"patterns", orNone(strings.Join(cfg.Watch.Patterns, ", "))},
		}},
	}
	renderSections(w, sections)
	return nil
}

func pathFields(p config.PathsConfig) []field {
	overrides := p.PathOverrides()
	if len(overrides) == 0 {
		return []field{{"overrides", "<none>"}}
	}
	keys := slices.Sorted(maps.Keys(overrides))
	out := make([]field, 0, len(keys))
	for _, k := range keys {
		out = append(out, field{k, overrides[k]})
	}
	return out
}
