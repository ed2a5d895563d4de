// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"strings"

	"github.com/magiconair/properties"
)

// DefaultSignerName is used when the leaf certificate has no usable CN.
const DefaultSignerName = "CERT"

// ParseCertificates decodes one or more X.509 certificates from PEM
// CERTIFICATE blocks or concatenated DER.
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("-----BEGIN")) {
		var certs []*x509.Certificate
		rest := trimmed
		for {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, &KeyFormatError{Reason: "invalid certificate", Err: err}
			}
			certs = append(certs, cert)
		}
		if len(certs) == 0 {
			return nil, &KeyFormatError{Reason: "no certificates found"}
		}
		return certs, nil
	}

	certs, err := x509.ParseCertificates(data)
	if err != nil {
		return nil, &KeyFormatError{Reason: "invalid certificate", Err: err}
	}
	if len(certs) == 0 {
		return nil, &KeyFormatError{Reason: "no certificates found"}
	}
	return certs, nil
}

// EncodeCertificates returns the chain as concatenated PEM blocks.
func EncodeCertificates(chain []*x509.Certificate) []byte {
	var buf bytes.Buffer
	for _, c := range chain {
		_ = pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: c.Raw})
	}
	return buf.Bytes()
}

// SignerName derives the display name from the certificate subject: the
// distinguished name is split at commas and read as a properties document,
// and the CN entry is returned. DefaultSignerName is returned when the
// subject cannot be read or has no CN.
func SignerName(cert *x509.Certificate) string {
	if cert == nil {
		return DefaultSignerName
	}
	return signerNameFromDN(cert.Subject.String())
}

func signerNameFromDN(dn string) string {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes([]byte(strings.ReplaceAll(dn, ",", "\n")))
	if err != nil {
		return DefaultSignerName
	}
	name := strings.TrimSpace(p.GetString("CN", ""))
	if name == "" {
		return DefaultSignerName
	}
	return name
}
