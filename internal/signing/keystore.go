// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"bytes"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	keystore "github.com/pavlo-v-chernykh/keystore-go/v4"
	"software.sslmate.com/src/go-pkcs12"
)

// JKSMagic is the big-endian magic number opening a JKS keystore.
const JKSMagic uint32 = 0xFEEDFEED

// Format is a keystore container format.
type Format string

const (
	FormatJKS    Format = "jks"
	FormatPKCS12 Format = "pkcs12"
)

type (
	// KeystoreEntry is a private key with its certificate chain, leaf first.
	KeystoreEntry struct {
		PKCS8 []byte
		Chain []*x509.Certificate
	}

	// Keystore gives access to the entries of a loaded keystore.
	Keystore interface {
		Entry(alias, keyPassword string) (*KeystoreEntry, error)
	}

	// KeystoreLoader opens keystores of a known format.
	KeystoreLoader interface {
		Load(r io.Reader, format Format, storePassword string) (Keystore, error)
	}

	// DefaultLoader reads JKS with keystore-go and PKCS#12 with go-pkcs12.
	DefaultLoader struct{}

	jksKeystore struct {
		ks            keystore.KeyStore
		storePassword string
	}

	// pkcs12Keystore holds the single key of a PKCS#12 file. Aliases are
	// not checked: the container is decoded as one key and its chain.
	pkcs12Keystore struct {
		pkcs8 []byte
		chain []*x509.Certificate
	}
)

// SniffFormat inspects the first four bytes of a keystore. Fewer than four
// bytes is treated as PKCS#12.
func SniffFormat(head []byte) Format {
	if len(head) >= 4 && binary.BigEndian.Uint32(head[:4]) == JKSMagic {
		return FormatJKS
	}
	return FormatPKCS12
}

// Load implements KeystoreLoader.
func (DefaultLoader) Load(r io.Reader, format Format, storePassword string) (Keystore, error) {
	switch format {
	case FormatJKS:
		ks := keystore.New()
		if err := ks.Load(r, []byte(storePassword)); err != nil {
			return nil, &KeyFormatError{Reason: "cannot read JKS keystore", Err: err}
		}
		return &jksKeystore{ks: ks, storePassword: storePassword}, nil

	case FormatPKCS12:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		key, leaf, cas, err := pkcs12.DecodeChain(data, storePassword)
		if err != nil {
			return nil, &KeyFormatError{Reason: "cannot read PKCS#12 keystore", Err: err}
		}
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, &KeyFormatError{Reason: "cannot encode PKCS#12 key", Err: err}
		}
		chain := []*x509.Certificate{leaf}
		return &pkcs12Keystore{pkcs8: der, chain: append(chain, cas...)}, nil

	default:
		return nil, fmt.Errorf("unknown keystore format %q", format)
	}
}

// Entry returns the key entry for alias. An empty keyPassword falls back to
// the store password.
func (j *jksKeystore) Entry(alias, keyPassword string) (*KeystoreEntry, error) {
	if keyPassword == "" {
		keyPassword = j.storePassword
	}
	pke, err := j.ks.GetPrivateKeyEntry(alias, []byte(keyPassword))
	if err != nil {
		if errors.Is(err, keystore.ErrEntryNotFound) || errors.Is(err, keystore.ErrWrongEntryType) {
			return nil, &KeyFormatError{Source: alias, Reason: "no private key for alias", Err: err}
		}
		return nil, &KeyFormatError{Source: alias, Reason: "cannot decrypt private key", Err: err}
	}
	if len(pke.CertificateChain) == 0 {
		return nil, &KeyFormatError{Source: alias, Reason: "no certificate chain for alias"}
	}

	entry := &KeystoreEntry{PKCS8: pke.PrivateKey}
	for _, c := range pke.CertificateChain {
		cert, err := x509.ParseCertificate(c.Content)
		if err != nil {
			return nil, &KeyFormatError{Source: alias, Reason: "invalid certificate in chain", Err: err}
		}
		entry.Chain = append(entry.Chain, cert)
	}
	return entry, nil
}

func (p *pkcs12Keystore) Entry(string, string) (*KeystoreEntry, error) {
	if len(p.pkcs8) == 0 {
		return nil, &KeyFormatError{Reason: "no private key in PKCS#12 keystore"}
	}
	if len(p.chain) == 0 || p.chain[0] == nil {
		return nil, &KeyFormatError{Reason: "no certificate chain in PKCS#12 keystore"}
	}
	return &KeystoreEntry{PKCS8: bytes.Clone(p.pkcs8), Chain: p.chain}, nil
}
