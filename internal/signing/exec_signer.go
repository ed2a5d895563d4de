// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/logging"
)

// DefaultSignerCommand is the apksigner tool looked up on PATH.
var DefaultSignerCommand = []string{"apksigner"}

// ErrNoSigners is returned for a request without identities.
var ErrNoSigners = errors.New("no signer identities")

// ExecSigner runs an external apksigner command:
//
//	<cmd> sign [--next-signer] --v1-signer-name N --key K --cert C ... --out OUT IN
type ExecSigner struct {
	// Command is the program and leading arguments. Empty means
	// DefaultSignerCommand.
	Command []string
}

var _ Signer = (*ExecSigner)(nil)

// Args returns the arguments passed after Command. keys and certs hold the
// per-signer material paths, index-aligned with req.Signers.
func (s *ExecSigner) Args(req Request, keys, certs []string) []string {
	args := []string{"sign"}
	for i, id := range req.Signers {
		if i > 0 {
			args = append(args, "--next-signer")
		}
		args = append(args,
			"--v1-signer-name", id.Name,
			"--key", keys[i],
			"--cert", certs[i],
		)
	}
	if req.MinSdk > 0 {
		args = append(args, "--min-sdk-version", strconv.Itoa(int(req.MinSdk)))
	}
	return append(args, "--out", req.OutputPath, req.InputPath)
}

// Sign writes the identities to a private temp directory and runs the
// command. The child process is killed when ctx is done.
func (s *ExecSigner) Sign(ctx context.Context, req Request) error {
	if len(req.Signers) == 0 {
		return fmt.Errorf("%w: %w", issue.ErrConfiguration, ErrNoSigners)
	}
	command := s.Command
	if len(command) == 0 {
		command = DefaultSignerCommand
	}

	tmp, err := os.MkdirTemp("", "droidforge-sign-")
	if err != nil {
		return fmt.Errorf("%w: %w", issue.ErrFileSystem, err)
	}
	defer os.RemoveAll(tmp)

	keys := make([]string, len(req.Signers))
	certs := make([]string, len(req.Signers))
	for i, id := range req.Signers {
		keys[i], certs[i], err = writeIdentity(tmp, i, id)
		if err != nil {
			return err
		}
	}

	args := append(append([]string{}, command[1:]...), s.Args(req, keys, certs)...)
	cmd := exec.CommandContext(ctx, command[0], args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	logging.FromContext(ctx).Debug("running apk signer", "command", command[0], "signers", len(req.Signers))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &SignError{Output: combined.String(), Err: err}
	}
	return nil
}

func writeIdentity(dir string, i int, id *Identity) (keyPath, certPath string, err error) {
	keyPath = filepath.Join(dir, fmt.Sprintf("signer%d.pk8", i))
	if err := os.WriteFile(keyPath, id.PKCS8, 0o600); err != nil {
		return "", "", fmt.Errorf("%w: write signer key: %w", issue.ErrFileSystem, err)
	}
	certPath = filepath.Join(dir, fmt.Sprintf("signer%d.pem", i))
	if err := os.WriteFile(certPath, EncodeCertificates(id.Chain), 0o600); err != nil {
		return "", "", fmt.Errorf("%w: write signer certificate: %w", issue.ErrFileSystem, err)
	}
	return keyPath, certPath, nil
}
