// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hgcrypto provides the event-signing primitives the hashgraph
// core treats as an external boundary: key generation, public-key
// encoding, and sign/verify over a canonical byte encoding.
package hgcrypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/asn1"
	"errors"
	"math/big"
)

// ErrInvalidSignature names a signature that does not check out for the
// given public key and payload. Verify itself reports that outcome as a
// false return value, not as this error.
var ErrInvalidSignature = errors.New("hgcrypto: invalid signature")

// Curve is the curve used throughout the core for event signatures.
func Curve() elliptic.Curve {
	return elliptic.P256()
}

// GenerateECDSAKey returns a fresh private key on Curve().
func GenerateECDSAKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(Curve(), rand.Reader)
}

// FromECDSAPub encodes a public key as an uncompressed elliptic-curve
// point: 0x04 || X || Y.
func FromECDSAPub(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	return elliptic.Marshal(pub.Curve, pub.X, pub.Y)
}

// ToECDSAPub decodes the uncompressed point produced by FromECDSAPub.
func ToECDSAPub(pub []byte) *ecdsa.PublicKey {
	if len(pub) == 0 {
		return nil
	}
	x, y := elliptic.Unmarshal(Curve(), pub)
	if x == nil {
		return nil
	}
	return &ecdsa.PublicKey{Curve: Curve(), X: x, Y: y}
}

type ecdsaSignature struct {
	R, S *big.Int
}

// Sign hashes payload with SHA-256 and signs the digest, returning an
// ASN.1 DER encoded signature.
func Sign(key *ecdsa.PrivateKey, payload []byte) ([]byte, error) {
	digest := sha256.Sum256(payload)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(ecdsaSignature{R: r, S: s})
}

// Verify reports whether sig is a valid signature of payload under pub.
func Verify(pub *ecdsa.PublicKey, payload, sig []byte) bool {
	if pub == nil {
		return false
	}
	var parsed ecdsaSignature
	if _, err := asn1.Unmarshal(sig, &parsed); err != nil {
		return false
	}
	digest := sha256.Sum256(payload)
	return ecdsa.Verify(pub, digest[:], parsed.R, parsed.S)
}
