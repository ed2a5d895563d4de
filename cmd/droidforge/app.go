// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/droidforge/droidforge/internal/build"
	"github.com/droidforge/droidforge/internal/config"
	"github.com/droidforge/droidforge/internal/logging"
	"github.com/droidforge/droidforge/internal/manifest"
	"github.com/droidforge/droidforge/internal/signing"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and delegates through it.
	App struct {
		Config config.Provider
		// Merger and Signer replace the configured external tools when set.
		Merger manifest.Merger
		Signer signing.Signer

		stdout     io.Writer
		stderr     io.Writer
		issueStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Merger manifest.Merger
		Signer signing.Signer
		Stdout io.Writer
		Stderr io.Writer
		// IssueStyle is the glamour style for catalog entries; empty means "dark".
		IssueStyle string
	}

	// session is the per-invocation state derived from the root flags.
	session struct {
		cfg     *config.Config
		files   []string
		root    string
		verbose bool
		log     *slog.Logger
	}
)

// NewApp creates an App with production defaults for unset dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Merger:     deps.Merger,
		Signer:     deps.Signer,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		issueStyle: deps.IssueStyle,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.issueStyle == "" {
		app.issueStyle = "dark"
	}
	return app
}

// session resolves the module root, loads the layered configuration and
// builds the logger for one command invocation.
func (a *App) session(ctx context.Context, flags *rootFlagValues) (*session, error) {
	root := flags.moduleDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	loaded, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ModuleRoot:     abs,
	})
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || loaded.Config.Verbose
	log := logging.New(a.stderr, logging.Options{
		Level:   loaded.Config.LogLevel.String(),
		Verbose: verbose,
	})
	return &session{
		cfg:     loaded.Config,
		files:   loaded.Files,
		root:    abs,
		verbose: verbose,
		log:     log,
	}, nil
}

// context attaches the session logger to ctx.
func (s *session) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, s.log)
}

// buildOptions returns the build options for this session.
func (a *App) buildOptions(s *session) build.Options {
	return build.Options{
		ModuleRoot: s.root,
		Config:     s.cfg,
		Merger:     a.Merger,
		Signer:     a.Signer,
	}
}
