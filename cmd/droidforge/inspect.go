// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/droidforge/droidforge/internal/build"
	"github.com/droidforge/droidforge/internal/buildscript"
	"github.com/droidforge/droidforge/internal/module"
)

type (
	// field is one label/value row of inspect output.
	field struct {
		label string
		value string
	}

	// section is a titled group of rows.
	section struct {
		title  string
		fields []field
	}
)

func newInspectCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the attributes and paths resolved for a module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), flags)
			if err != nil {
				return app.fail(err, flags.verbose)
			}
			m, err := build.OpenModule(s.root, s.cfg)
			if err != nil {
				return app.fail(err, s.verbose)
			}
			script, err := m.Script()
			if err != nil {
				return app.fail(err, s.verbose)
			}
			renderSections(cmd.OutOrStdout(), inspectModule(m, script, s.files))
			return nil
		},
	}
}

// inspectModule collects everything droidforge resolved for m from one
// parse of its build script.
func inspectModule(m *module.Module, script *buildscript.Script, configFiles []string) []section {
	appID := "<unresolved>"
	if id, err := buildscript.ResolveApplicationID(script); err == nil {
		appID = id.String()
	}
	namespace, _ := script.Namespace()

	attrs := section{title: "Build script", fields: []field{
		{"script", m.ScriptFile()},
		{"kind", string(script.Kind())},
		{"namespace", orNone(namespace)},
		{"application id", appID},
		{"min sdk", script.MinSdk().String()},
		{"target sdk", script.TargetSdk().String()},
		{"version code", strconv.Itoa(script.VersionCode())},
		{"version name", script.VersionName()},
		{"view binding", strconv.FormatBool(script.ViewBindingEnabled())},
		{"minify", strconv.FormatBool(script.MinifyEnabled())},
		{"zip align", strconv.FormatBool(script.ZipAlignEnabled())},
		{"legacy packaging", strconv.FormatBool(script.UseLegacyPackaging())},
		{"excludes", orNone(strings.Join(script.Excludes(), ", "))},
	}}

	paths := section{title: "Paths", fields: []field{
		{"build dir", m.BuildDir()},
		{"java", m.JavaDir()},
		{"kotlin", m.KotlinDir()},
		{"resources", m.ResourcesDir()},
		{"assets", m.AssetsDir()},
		{"jni libs", m.NativeLibrariesDir()},
		{"manifest", m.ManifestFile()},
	}}

	libs := section{title: "Libraries"}
	for _, lib := range m.Libraries() {
		libs.fields = append(libs.fields, field{"jar", lib})
	}
	for _, mf := range m.LibraryManifestCandidates() {
		libs.fields = append(libs.fields, field{"manifest", mf})
	}
	if len(libs.fields) == 0 {
		libs.fields = []field{{"libraries", "<none>"}}
	}

	cfg := section{title: "Configuration"}
	for _, f := range configFiles {
		cfg.fields = append(cfg.fields, field{"file", f})
	}
	if len(cfg.fields) == 0 {
		cfg.fields = []field{{"file", "<defaults only>"}}
	}

	return []section{attrs, paths, libs, cfg}
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func renderSections(w io.Writer, sections []section) {
	width := 0
	for _, sec := range sections {
		for _, f := range sec.fields {
			width = max(width, lipgloss.Width(f.label))
		}
	}
	label := labelStyle.Width(width + 2)
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, TitleStyle.Render(sec.title))
		for _, f := range sec.fields {
			fmt.Fprintf(w, "  %s%s\n", label.Render(f.label), valueStyle.Render(f.value))
		}
	}
}
