// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/droidforge/droidforge/internal/build"
)

func newSignCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "sign <package>",
		Short: "Sign a package with the configured identity",
		Long: `Sign a package with the configured identity.

The identity comes from signing.store_file (JKS or PKCS#12) or from the
signing.key_file / signing.cert_file pair. Only the signing step runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context(), flags)
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			opts := app.buildOptions(s)
			opts.SignInput = args[0]
			opts.SignOutput = output

			arts, err := build.Sign(s.context(cmd.Context()), opts)
			if err != nil {
				return app.fail(err, s.verbose)
			}
			for _, a := range arts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("✓ signed"), a.Path)
			}
			return nil
		},
	}
	c.Flags().StringVarP(&output, "out", "o", "", "signed package path (default <name>-signed<ext>)")
	return c
}
