// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/droidforge/droidforge/internal/issue"
)

// fakeTool writes an executable shell script that stands in for the merger.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merger.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// The fake copies --main to --out and echoes its arguments.
const copyMain = `main=""; out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --main) main="$2"; shift ;;
    --out) out="$2"; shift ;;
  esac
  shift
done
cp "$main" "$out"
echo "merged $main"
`

func TestExecMerger_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "AndroidManifest.xml")
	writeFile(t, main, "<manifest package=\"x\"/>")

	m := &ExecMerger{Command: []string{"/bin/sh", fakeTool(t, copyMain)}}
	rep, err := m.Merge(context.Background(), MergeRequest{Set: Set{Main: main}, Type: MergeApplication})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if rep.Error || string(rep.Document) != "<manifest package=\"x\"/>" {
		t.Errorf("Merge() = %+v", rep)
	}
	if !strings.Contains(rep.Text, "merged "+main) {
		t.Errorf("Text = %q", rep.Text)
	}
}

func TestExecMerger_ErrorReport(t *testing.T) {
	t.Parallel()

	m := &ExecMerger{Command: []string{"/bin/sh", fakeTool(t, "echo 'Error: duplicate activity' >&2\nexit 1\n")}}
	rep, err := m.Merge(context.Background(), MergeRequest{Set: Set{Main: "m.xml"}, Type: MergeApplication})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !rep.Error || !strings.Contains(rep.Text, "duplicate activity") {
		t.Errorf("Merge() = %+v", rep)
	}
}

func TestExecMerger_Failures(t *testing.T) {
	t.Parallel()

	m := &ExecMerger{Command: []string{filepath.Join(t.TempDir(), "no-such-merger")}}
	if _, err := m.Merge(context.Background(), MergeRequest{Type: MergeApplication}); !errors.Is(err, issue.ErrMerge) {
		t.Errorf("missing tool error = %v", err)
	}

	if _, err := m.Merge(context.Background(), MergeRequest{Type: MergeLibrary}); !errors.Is(err, ErrUnsupportedMergeType) {
		t.Errorf("library merge error = %v", err)
	}

	hang := &ExecMerger{Command: []string{"/bin/sh", fakeTool(t, "sleep 30\n")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := hang.Merge(ctx, MergeRequest{Type: MergeApplication}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled merge error = %v", err)
	}
}
