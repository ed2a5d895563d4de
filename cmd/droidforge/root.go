// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
	moduleDir  string
}

// NewRootCommand builds the droidforge command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "droidforge",
		Short: "Build steps for Android modules",
		Long: TitleStyle.Render("droidforge") + SubtitleStyle.Render(" - Build steps for Android modules") + `

droidforge reads a module's build.gradle (or build.gradle.kts), generates
the debug BuildConfig class, merges the main manifest with library
manifests and signs the resulting package.

` + SubtitleStyle.Render("Examples:") + `
  droidforge build                   Generate BuildConfig and merge the manifest
  droidforge build --sign app.apk    Also sign app.apk
  droidforge inspect                 Show what was read from the build script
  droidforge watch                   Rebuild when the build script or manifests change
  droidforge config show             Show the effective configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (replaces the global and project config files)")
	pf.StringVarP(&flags.moduleDir, "module", "C", "", "module directory (default is the working directory)")

	rootCmd.AddCommand(
		newBuildCommand(app, flags),
		newInspectCommand(app, flags),
		newSignCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting code.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler stays silent for ExitErrors that were reported by the
// command itself.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
