// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"bufio"
	"crypto"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/droidforge/droidforge/internal/issue"
)

type (
	// Identity is one signer: key, certificate chain (leaf first) and the
	// display name used for the v1 signature file.
	Identity struct {
		Name       string
		PrivateKey crypto.PrivateKey
		Algorithm  Algorithm
		Chain      []*x509.Certificate
		// PKCS8 is the DER encoding the key was decoded from.
		PKCS8 []byte
	}

	// KeystoreRef locates a key entry inside a keystore file.
	KeystoreRef struct {
		Path          string
		Alias         string
		StorePassword string
		// KeyPassword defaults to StorePassword when empty.
		KeyPassword string
	}
)

// Leaf returns the signer certificate.
func (id *Identity) Leaf() *x509.Certificate {
	if len(id.Chain) == 0 {
		return nil
	}
	return id.Chain[0]
}

// LoadFromFiles builds an identity from a PKCS#8 key file and a certificate
// file.
func LoadFromFiles(keyPath, certPath string) (*Identity, error) {
	keyBlob, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read key: %w", issue.ErrFileSystem, err)
	}
	key, alg, der, err := DecodePrivateKey(keyBlob)
	if err != nil {
		return nil, withSource(err, keyPath)
	}

	certBlob, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read certificate: %w", issue.ErrFileSystem, err)
	}
	chain, err := ParseCertificates(certBlob)
	if err != nil {
		return nil, withSource(err, certPath)
	}

	return newIdentity(key, alg, der, chain), nil
}

// LoadFromKeystore builds an identity from a keystore entry, sniffing the
// keystore format. A nil loader means DefaultLoader.
func LoadFromKeystore(ref KeystoreRef, loader KeystoreLoader) (*Identity, error) {
	if loader == nil {
		loader = DefaultLoader{}
	}
	f, err := os.Open(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open keystore: %w", issue.ErrFileSystem, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	// Peek returns what it could read when the stream is shorter than 4.
	head, _ := br.Peek(4)
	format := SniffFormat(head)

	ks, err := loader.Load(br, format, ref.StorePassword)
	if err != nil {
		return nil, withSource(err, ref.Path)
	}
	entry, err := ks.Entry(ref.Alias, ref.KeyPassword)
	if err != nil {
		return nil, err
	}
	if entry == nil || len(entry.PKCS8) == 0 {
		return nil, &KeyFormatError{Source: ref.Alias, Reason: "no private key for alias"}
	}
	if len(entry.Chain) == 0 {
		return nil, &KeyFormatError{Source: ref.Alias, Reason: "no certificate chain for alias"}
	}

	key, alg, der, err := DecodePrivateKey(entry.PKCS8)
	if err != nil {
		return nil, withSource(err, ref.Alias)
	}
	return newIdentity(key, alg, der, entry.Chain), nil
}

func newIdentity(key crypto.PrivateKey, alg Algorithm, der []byte, chain []*x509.Certificate) *Identity {
	return &Identity{
		Name:       SignerName(chain[0]),
		PrivateKey: key,
		Algorithm:  alg,
		Chain:      chain,
		PKCS8:      der,
	}
}

func withSource(err error, source string) error {
	if kfe, ok := err.(*KeyFormatError); ok && kfe.Source == "" {
		c := *kfe
		c.Source = source
		return &c
	}
	return err
}
