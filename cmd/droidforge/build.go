// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/droidforge/droidforge/internal/build"
)

func newBuildCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var signInput, signOutput string

	c := &cobra.Command{
		Use:   "build",
		Short: "Run the build pipeline for a module",
		Long: `Run the build pipeline for a module.

Generates build/gen/<package>/BuildConfig.java and merges the main manifest
with library manifests into build/bin/AndroidManifest.xml. With --sign the
given package is signed after the merge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), flags)
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			opts := app.buildOptions(s)
			opts.SignInput = signInput
			opts.SignOutput = signOutput

			rep, err := build.Run(s.context(cmd.Context()), opts)
			renderReport(cmd.OutOrStdout(), rep)
			if err != nil {
				return app.fail(err, s.verbose)
			}
			return nil
		},
	}
	c.Flags().StringVar(&signInput, "sign", "", "unsigned package to sign after the manifest merge")
	c.Flags().StringVarP(&signOutput, "out", "o", "", "signed package path (default derived from --sign)")
	return c
}
