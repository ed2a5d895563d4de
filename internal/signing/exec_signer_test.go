// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package signing

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/testutil"
)

// fakeSigner writes a shell script standing in for apksigner. It records its
// arguments to args.txt next to the script and copies the input to --out.
func fakeSigner(t *testing.T, exitCode int) (script, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.txt")
	script = filepath.Join(dir, "apksigner.sh")
	body := `#!/bin/sh
printf '%s\n' "$@" > "` + argsFile + `"
out=""; in=""
while [ $# -gt 0 ]; do
  case "$1" in
    --out) out="$2"; shift ;;
    *) in="$1" ;;
  esac
  shift
done
`
	if exitCode != 0 {
		body += "echo 'signer exploded' >&2\nexit " + strconv.Itoa(exitCode) + "\n"
	} else {
		body += `cp "$in" "$out"` + "\n"
	}
	testutil.MustWriteFile(t, script, body)
	if err := os.Chmod(script, 0o755); err != nil {
		t.Fatal(err)
	}
	return script, argsFile
}

func testIdentity(t *testing.T, cn string) *Identity {
	t.Helper()
	key, der := testutil.NewECKey(t)
	cert := testutil.NewCertificate(t, key, pkix.Name{CommonName: cn})
	return &Identity{Name: cn, PrivateKey: key, Algorithm: AlgorithmEC, Chain: []*x509.Certificate{cert}, PKCS8: der}
}

func TestExecSigner_Args(t *testing.T) {
	t.Parallel()

	s := &ExecSigner{}
	req := Request{
		Signers:    []*Identity{{Name: "first"}, {Name: "second"}},
		InputPath:  "in.apk",
		OutputPath: "out.apk",
		MinSdk:     24,
	}
	got := s.Args(req, []string{"k0", "k1"}, []string{"c0", "c1"})
	want := []string{
		"sign",
		"--v1-signer-name", "first", "--key", "k0", "--cert", "c0",
		"--next-signer",
		"--v1-signer-name", "second", "--key", "k1", "--cert", "c1",
		"--min-sdk-version", "24",
		"--out", "out.apk", "in.apk",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
}

func TestExecSigner_Sign(t *testing.T) {
	t.Parallel()

	script, argsFile := fakeSigner(t, 0)
	dir := t.TempDir()
	in := filepath.Join(dir, "app-unsigned.apk")
	out := filepath.Join(dir, "app-signed.apk")
	testutil.MustWriteFile(t, in, "PK-payload")

	s := &ExecSigner{Command: []string{"/bin/sh", script}}
	err := s.Sign(context.Background(), Request{
		Signers:    []*Identity{testIdentity(t, "Dev")},
		InputPath:  in,
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if got := testutil.MustReadFile(t, out); got != "PK-payload" {
		t.Errorf("output = %q, want the copied input", got)
	}

	args := strings.Split(strings.TrimSpace(testutil.MustReadFile(t, argsFile)), "\n")
	if args[0] != "sign" || args[1] != "--v1-signer-name" || args[2] != "Dev" {
		t.Errorf("args = %q", args)
	}
	// Key material lives in a temp dir that is removed after signing.
	if _, err := os.Stat(filepath.Dir(args[4])); !os.IsNotExist(err) {
		t.Errorf("signer temp dir %s still exists", filepath.Dir(args[4]))
	}
}

func TestExecSigner_Failure(t *testing.T) {
	t.Parallel()

	script, _ := fakeSigner(t, 3)
	in := filepath.Join(t.TempDir(), "app.apk")
	testutil.MustWriteFile(t, in, "x")

	s := &ExecSigner{Command: []string{"/bin/sh", script}}
	err := s.Sign(context.Background(), Request{
		Signers:    []*Identity{testIdentity(t, "Dev")},
		InputPath:  in,
		OutputPath: in + ".signed",
	})
	var se *SignError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SignError", err)
	}
	if !strings.Contains(se.Output, "signer exploded") {
		t.Errorf("Output = %q, want the tool's stderr", se.Output)
	}
}

func TestExecSigner_NoSigners(t *testing.T) {
	t.Parallel()

	err := (&ExecSigner{}).Sign(context.Background(), Request{InputPath: "in", OutputPath: "out"})
	if !errors.Is(err, ErrNoSigners) || !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("error = %v, want ErrNoSigners wrapped in ErrConfiguration", err)
	}
}

func TestExecSigner_Cancelled(t *testing.T) {
	t.Parallel()

	script, _ := fakeSigner(t, 0)
	in := filepath.Join(t.TempDir(), "app.apk")
	testutil.MustWriteFile(t, in, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&ExecSigner{Command: []string{"/bin/sh", script}}).Sign(ctx, Request{
		Signers:    []*Identity{testIdentity(t, "Dev")},
		InputPath:  in,
		OutputPath: in + ".signed",
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
