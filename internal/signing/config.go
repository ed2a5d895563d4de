// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/pkg/types"
)

// ErrNoSigningSource is returned when neither a keystore nor a key and
// certificate pair is configured.
var ErrNoSigningSource = errors.New("no signing key configured: set a keystore or a key and certificate file")

// Config is the immutable input of the signing task.
type Config struct {
	KeyFile       string
	CertFile      string
	StoreFile     string
	KeyAlias      string
	StorePassword string
	KeyPassword   string

	// Input is the unsigned package; Output defaults to DefaultOutput(Input).
	Input  string
	Output string
	MinSdk types.SdkLevel
}

// UsesKeystore reports whether the identity comes from a keystore. A
// keystore wins over raw files when both are set.
func (c Config) UsesKeystore() bool { return c.StoreFile != "" }

// Validate checks that the config names an input and one identity source.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: no input package to sign", issue.ErrConfiguration)
	}
	switch {
	case c.UsesKeystore():
		return nil
	case c.KeyFile != "" && c.CertFile != "":
		return nil
	case c.KeyFile != "" || c.CertFile != "":
		return fmt.Errorf("%w: key_file and cert_file must be set together", issue.ErrConfiguration)
	default:
		return fmt.Errorf("%w: %w", issue.ErrConfiguration, ErrNoSigningSource)
	}
}

// OutputPath is Output or the default derived from Input.
func (c Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return DefaultOutput(c.Input)
}

// DefaultOutput maps app-unsigned.apk to app-signed.apk and anything else
// to <name>-signed<ext>.
func DefaultOutput(input string) string {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stem = strings.TrimSuffix(stem, "-unsigned")
	return filepath.Join(dir, stem+"-signed"+ext)
}
