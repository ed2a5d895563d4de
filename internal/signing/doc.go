// SPDX-License-Identifier: MPL-2.0

// Package signing loads signer identities and signs the module package.
//
// An identity comes either from a raw PKCS#8 key plus certificate file or
// from a keystore entry. Keystores are sniffed by their first four bytes:
// the JKS magic 0xFEEDFEED selects the legacy Java format and anything else
// is read as PKCS#12. Signing itself is delegated to a Signer, normally the
// apksigner command line tool.
package signing
