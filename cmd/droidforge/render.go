// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/task"
	"github.com/droidforge/droidforge/pkg/types"
)

// fail prints err as an error card on stderr and returns the ExitError the
// command should return. Verbose mode adds the error chain and the matching
// catalog entry.
func (a *App) fail(err error, verbose bool) error {
	code := types.ExitUsage
	var be *issue.BuildError
	if errors.As(err, &be) {
		code = types.ExitBuildFailed
	}

	var sb strings.Builder
	sb.WriteString(ErrorStyle.Render("✗ " + failureHeader(be)))
	sb.WriteString("\n\n")
	sb.WriteString(issue.Explain(err).Format(verbose))
	sb.WriteString("\n")

	if verbose {
		if entry := issue.ForError(err); entry != nil {
			if md, renderErr := entry.Render(a.issueStyle); renderErr == nil {
				sb.WriteString(md)
			}
		}
	} else {
		sb.WriteString(hintStyle.Render("Run again with --verbose for details."))
		sb.WriteString("\n")
	}

	fmt.Fprint(a.stderr, sb.String())
	return &ExitError{Code: code}
}

func failureHeader(be *issue.BuildError) string {
	if be == nil {
		return "droidforge failed"
	}
	return fmt.Sprintf("Build failed in %s (%s)", be.Task, be.Phase)
}

// renderReport writes one line per task followed by the produced artifacts.
func renderReport(w io.Writer, rep *task.Report) {
	if rep == nil {
		return
	}
	for _, res := range rep.Results {
		var mark string
		switch res.State {
		case task.StateSucceeded:
			mark = SuccessStyle.Render("✓")
		case task.StateFailed:
			mark = ErrorStyle.Render("✗")
		default:
			mark = SubtitleStyle.Render("-")
		}
		line := fmt.Sprintf("%s %s", mark, CmdStyle.Render(res.Task))
		if res.State == task.StateSucceeded || res.State == task.StateFailed {
			line += " " + VerboseStyle.Render(res.Duration.Round(time.Millisecond).String())
		}
		fmt.Fprintln(w, line)
	}
	if len(rep.Artifacts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Artifacts"))
	for _, a := range rep.Artifacts {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(a.Name), valueStyle.Render(a.Path))
	}
}
