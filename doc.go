// Package tssrsa implements a threshold RSA signature scheme (Shoup, 2000):
// an RSA private key is split into l shares, any k of which (k >= l/2+1)
// can jointly produce a standard RSA signature under the shared public key,
// while fewer than k shares reveal nothing about it. Every signer attaches
// a non-interactive zero-knowledge proof of correct exponentiation so a
// combiner can detect a cheating party.
//
// The package is a library with no CLI, no persisted state, and no
// background goroutines: every exported function is synchronous and its
// only side effects are reads from the process-wide CSPRNG and allocation of
// big-integer scratch. See pkg/bn, pkg/pss, pkg/polynomial, pkg/lagrange and
// pkg/proof for the individual algorithmic components this package wires
// together.
//
// Grounded on original_source/src/crypto-tss-rsa (Safeheron tss-rsa-cpp);
// see DESIGN.md for the file-by-file correspondence.
package tssrsa

import "github.com/cryptovault-labs/tssrsa/pkg/pss"

// f4 is the Fermat F4 prime, the default RSA public exponent.
const f4 = 65537

// EncodePSS and VerifyPSS re-export the EMSA-PSS codec (pkg/pss) at the
// package root, matching the flat public API spec.md §6 names
// (encode_pss/verify_pss) alongside GenerateKey/Sign/CombineSignatures.
var (
	EncodePSS = pss.Encode
	VerifyPSS = pss.Verify
)

// SaltMode re-exports pkg/pss's salt-length policy so callers never need to
// import pkg/pss directly.
type SaltMode = pss.SaltMode

const (
	AutoLength  = pss.AutoLength
	EqualToHash = pss.EqualToHash
)
