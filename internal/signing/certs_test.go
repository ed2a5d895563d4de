// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"testing"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/testutil"
)

func TestParseCertificates(t *testing.T) {
	t.Parallel()

	key, _ := testutil.NewECKey(t)
	leaf := testutil.NewCertificate(t, key, pkix.Name{CommonName: "leaf"})
	ca := testutil.NewCertificate(t, key, pkix.Name{CommonName: "ca"})

	tests := []struct {
		name    string
		data    []byte
		wantCNs []string
	}{
		{name: "single PEM", data: testutil.PEMCertificates(leaf), wantCNs: []string{"leaf"}},
		{name: "PEM chain keeps order", data: testutil.PEMCertificates(leaf, ca), wantCNs: []string{"leaf", "ca"}},
		{name: "DER", data: leaf.Raw, wantCNs: []string{"leaf"}},
		{name: "concatenated DER", data: append(append([]byte{}, leaf.Raw...), ca.Raw...), wantCNs: []string{"leaf", "ca"}},
		{name: "round trip", data: EncodeCertificates([]*x509.Certificate{leaf, ca}), wantCNs: []string{"leaf", "ca"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			certs, err := ParseCertificates(tt.data)
			if err != nil {
				t.Fatalf("ParseCertificates() error = %v", err)
			}
			if len(certs) != len(tt.wantCNs) {
				t.Fatalf("got %d certificates, want %d", len(certs), len(tt.wantCNs))
			}
			for i, c := range certs {
				if c.Subject.CommonName != tt.wantCNs[i] {
					t.Errorf("certs[%d] CN = %q, want %q", i, c.Subject.CommonName, tt.wantCNs[i])
				}
			}
		})
	}
}

func TestParseCertificates_None(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{
		nil,
		[]byte("-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n"),
		[]byte("junk"),
	} {
		if _, err := ParseCertificates(data); !errors.Is(err, issue.ErrKeyFormat) {
			t.Errorf("ParseCertificates(%q) error = %v, want ErrKeyFormat", data, err)
		}
	}
}

func TestSignerName(t *testing.T) {
	t.Parallel()

	key, _ := testutil.NewECKey(t)
	tests := []struct {
		name    string
		subject pkix.Name
		want    string
	}{
		{name: "CN only", subject: pkix.Name{CommonName: "Release Key"}, want: "Release Key"},
		{
			name:    "CN among other attributes",
			subject: pkix.Name{CommonName: "droid", Organization: []string{"Example"}, Country: []string{"US"}},
			want:    "droid",
		},
		{name: "no CN", subject: pkix.Name{Organization: []string{"Example"}}, want: DefaultSignerName},
		{name: "empty subject", subject: pkix.Name{}, want: DefaultSignerName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cert := testutil.NewCertificate(t, key, tt.subject)
			if got := SignerName(cert); got != tt.want {
				t.Errorf("SignerName() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := SignerName(nil); got != DefaultSignerName {
		t.Errorf("SignerName(nil) = %q, want %q", got, DefaultSignerName)
	}
}
