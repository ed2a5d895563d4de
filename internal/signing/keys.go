// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // legacy signing keys
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
)

// Algorithm is a supported signing key algorithm.
type Algorithm string

const (
	AlgorithmRSA Algorithm = "RSA"
	AlgorithmEC  Algorithm = "EC"
	AlgorithmDSA Algorithm = "DSA"
)

// ErrUnsupportedKey is wrapped when no decoder accepts a key.
var ErrUnsupportedKey = errors.New("not an RSA, EC, or DSA private key")

var oidDSA = asn1.ObjectIdentifier{1, 2, 840, 10040, 4, 1}

type keyDecoder struct {
	alg    Algorithm
	decode func(der []byte) (crypto.PrivateKey, error)
}

// decoders are tried in this order; the first acceptance wins.
var decoders = []keyDecoder{
	{AlgorithmRSA, decodeRSA},
	{AlgorithmEC, decodeEC},
	{AlgorithmDSA, decodeDSA},
}

// DecodePrivateKey decodes a PKCS#8 key, given as DER or as a PEM
// "PRIVATE KEY" block.
func DecodePrivateKey(blob []byte) (crypto.PrivateKey, Algorithm, []byte, error) {
	der := blob
	if block, _ := pem.Decode(blob); block != nil {
		if block.Type != "PRIVATE KEY" {
			return nil, "", nil, &KeyFormatError{Reason: fmt.Sprintf("unexpected PEM block %q, want PRIVATE KEY", block.Type)}
		}
		der = block.Bytes
	}
	for _, d := range decoders {
		if key, err := d.decode(der); err == nil {
			return key, d.alg, der, nil
		}
	}
	return nil, "", nil, &KeyFormatError{Reason: "cannot decode private key", Err: ErrUnsupportedKey}
}

func decodeRSA(der []byte) (crypto.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PKCS#8 key is %T", key)
	}
	return rsaKey, nil
}

func decodeEC(der []byte) (crypto.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PKCS#8 key is %T", key)
	}
	return ecKey, nil
}

type (
	pkcs8Info struct {
		Version    int
		Algo       pkix.AlgorithmIdentifier
		PrivateKey []byte
	}

	dsaParameters struct {
		P, Q, G *big.Int
	}
)

// decodeDSA decodes a PKCS#8 DSA key, which crypto/x509 does not support.
// The public value is recomputed as g^x mod p.
func decodeDSA(der []byte) (crypto.PrivateKey, error) {
	var info pkcs8Info
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errors.New("trailing data after PKCS#8 structure")
	}
	if !info.Algo.Algorithm.Equal(oidDSA) {
		return nil, fmt.Errorf("algorithm %v is not DSA", info.Algo.Algorithm)
	}

	var params dsaParameters
	if _, err := asn1.Unmarshal(info.Algo.Parameters.FullBytes, &params); err != nil {
		return nil, fmt.Errorf("DSA parameters: %w", err)
	}
	x := new(big.Int)
	if _, err := asn1.Unmarshal(info.PrivateKey, &x); err != nil {
		return nil, fmt.Errorf("DSA private value: %w", err)
	}
	if params.P == nil || params.Q == nil || params.G == nil || params.P.Sign() <= 0 || x.Sign() <= 0 || x.Cmp(params.Q) >= 0 {
		return nil, errors.New("DSA key out of range")
	}

	key := &dsa.PrivateKey{
		PublicKey: dsa.PublicKey{
			Parameters: dsa.Parameters{P: params.P, Q: params.Q, G: params.G},
			Y:          new(big.Int).Exp(params.G, x, params.P),
		},
		X: x,
	}
	return key, nil
}

// MarshalDSAPKCS8 encodes key as PKCS#8 DER.
func MarshalDSAPKCS8(key *dsa.PrivateKey) ([]byte, error) {
	params, err := asn1.Marshal(dsaParameters{P: key.P, Q: key.Q, G: key.G})
	if err != nil {
		return nil, err
	}
	x, err := asn1.Marshal(key.X)
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(pkcs8Info{
		Algo: pkix.AlgorithmIdentifier{
			Algorithm:  oidDSA,
			Parameters: asn1.RawValue{FullBytes: params},
		},
		PrivateKey: x,
	})
}
