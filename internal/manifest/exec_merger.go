// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/logging"
)

// DefaultMergerCommand is the manifest-merger tool looked up on PATH.
var DefaultMergerCommand = []string{"manifest-merger"}

// ExecMerger runs an external manifest-merger command:
//
//	<cmd> --main <file> [--libs <file>]... [--property KEY=VALUE]... --out <file>
//
// A non-zero exit is an error report carrying the combined output. Only
// application merges are supported.
type ExecMerger struct {
	// Command is the program and leading arguments. Empty means
	// DefaultMergerCommand.
	Command []string
}

var _ Merger = (*ExecMerger)(nil)

// Args returns the arguments passed after Command for req, writing to out.
func (m *ExecMerger) Args(req MergeRequest, out string) []string {
	args := []string{"--main", req.Set.Main}
	for _, lib := range req.Set.Libraries {
		args = append(args, "--libs", lib)
	}
	for _, kv := range req.SortedOverrides() {
		args = append(args, "--property", kv)
	}
	return append(args, "--out", out)
}

// Merge runs the command. The child process is killed when ctx is done.
func (m *ExecMerger) Merge(ctx context.Context, req MergeRequest) (*Report, error) {
	if req.Type != MergeApplication {
		return nil, fmt.Errorf("%w: %w: %s", issue.ErrMerge, ErrUnsupportedMergeType, req.Type)
	}
	command := m.Command
	if len(command) == 0 {
		command = DefaultMergerCommand
	}

	tmp, err := os.MkdirTemp("", "droidforge-merge-")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", issue.ErrFileSystem, err)
	}
	defer os.RemoveAll(tmp)
	out := filepath.Join(tmp, "AndroidManifest.xml")

	args := append(append([]string{}, command[1:]...), m.Args(req, out)...)
	cmd := exec.CommandContext(ctx, command[0], args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	logging.FromContext(ctx).Debug("running manifest merger", "command", command[0], "args", args)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return &Report{Error: true, Text: combined.String()}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: run %s: %w", issue.ErrMerge, command[0], err)
	}

	doc, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%w: merger wrote no output: %w", issue.ErrMerge, err)
	}
	return &Report{Document: doc, Text: combined.String()}, nil
}
