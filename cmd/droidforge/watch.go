// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droidforge/droidforge/internal/build"
	"github.com/droidforge/droidforge/internal/watch"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild when the build script, manifests or config change",
		Long: `Rebuild when the build script, manifests or config change.

The pipeline runs once immediately, then again after each burst of changes
to files matching watch.patterns. The build directory is never watched. A
change that arrives while a build is running is picked up after it ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app, flags)
		},
	}
}

func runWatch(cmd *cobra.Command, app *App, flags *rootFlagValues) error {
	s, err := app.session(cmd.Context(), flags)
	if err != nil {
		return app.fail(err, flags.verbose)
	}
	debounce, err := s.cfg.Watch.DebounceDuration()
	if err != nil {
		return app.fail(err, s.verbose)
	}
	m, err := build.OpenModule(s.root, s.cfg)
	if err != nil {
		return app.fail(err, s.verbose)
	}

	out := cmd.OutOrStdout()
	// Config files are re-read on every rebuild so droidforge.cue edits apply.
	rebuild := func(ctx context.Context) {
		cur, err := app.session(ctx, flags)
		if err != nil {
			_ = app.fail(err, flags.verbose)
			return
		}
		rep, err := build.Run(cur.context(ctx), app.buildOptions(cur))
		renderReport(out, rep)
		if err != nil {
			_ = app.fail(err, cur.verbose)
		}
	}

	fmt.Fprintf(out, "%s Initial build of %s\n", VerboseHighlightStyle.Render("→"), s.root)
	rebuild(cmd.Context())
	fmt.Fprintf(out, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))

	w, err := watch.New(watch.Config{
		Root:     s.root,
		Patterns: s.cfg.Watch.Patterns,
		Ignore:   buildDirIgnores(s.root, m.BuildDir()),
		Debounce: debounce,
		Logger:   s.log,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(out, "%s Detected %d change(s), rebuilding\n", VerboseHighlightStyle.Render("→"), len(changed))
			rebuild(ctx)
			fmt.Fprintf(out, "\n%s Watching for changes...\n\n", VerboseHighlightStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(cmd.Context())
}

// buildDirIgnores returns the ignore pattern for buildDir when it lies
// inside root.
func buildDirIgnores(root, buildDir string) []string {
	rel, err := filepath.Rel(root, buildDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return []string{filepath.ToSlash(rel) + "/**"}
}
