// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"

	"github.com/algorand/go-invoker/protocol"
)

// KeyType enumerates the signature schemes a PublicKey may belong to.
type KeyType uint32

// Key types. Only ed25519 is defined; anything else fails closed.
const (
	KeyTypeEd25519 KeyType = 0
)

const (
	// Ed25519PublicKeySize is the size of an ed25519 public key.
	Ed25519PublicKeySize = ed25519.PublicKeySize
	// Ed25519SignatureSize is the size of an ed25519 signature.
	Ed25519SignatureSize = ed25519.SignatureSize
)

// Known reports whether t is a supported key type.
func (t KeyType) Known() bool {
	return t == KeyTypeEd25519
}

func (t KeyType) String() string {
	switch t {
	case KeyTypeEd25519:
		return "ed25519"
	default:
		return fmt.Sprintf("keytype(%d)", uint32(t))
	}
}

var (
	// ErrUnknownKeyType is returned for a key whose scheme is not supported.
	ErrUnknownKeyType = errors.New("unknown public key type")
	// ErrBadSignature represents a bad signature
	ErrBadSignature = errors.New("invalid signature")
	// ErrBadSignatureLength is returned when a signature has the wrong size for its scheme.
	ErrBadSignatureLength = errors.New("invalid signature length")
	errBadChecksum        = errors.New("checksum mismatch")
)

// PublicKey is a tagged union over supported key schemes. It is a value
// type and may be compared with ==.
type PublicKey struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type    KeyType                    `codec:"t"`
	Ed25519 [Ed25519PublicKeySize]byte `codec:"ed"`
}

// Ed25519PublicKey wraps a raw ed25519 key.
func Ed25519PublicKey(raw [Ed25519PublicKeySize]byte) PublicKey {
	return PublicKey{Type: KeyTypeEd25519, Ed25519: raw}
}

// PublicKeyFromBytes builds an ed25519 PublicKey from a byte slice.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != Ed25519PublicKeySize {
		return PublicKey{}, fmt.Errorf("public key has %d bytes, want %d", len(b), Ed25519PublicKeySize)
	}
	var raw [Ed25519PublicKeySize]byte
	copy(raw[:], b)
	return Ed25519PublicKey(raw), nil
}

// Validate fails for key types outside the closed set.
func (pk PublicKey) Validate() error {
	if !pk.Type.Known() {
		return fmt.Errorf("%w: %d", ErrUnknownKeyType, uint32(pk.Type))
	}
	return nil
}

// IsZero is true for the zero value.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// String returns the checksummed "G..." form of the key.
func (pk PublicKey) String() string {
	return EncodeChecksummed(VersionPublicKey, pk.Ed25519[:])
}

// VerifyDigest checks sig against the digest using the scheme implied by
// the key type. Malformed input of any kind is reported as an error.
func (pk PublicKey) VerifyDigest(d Digest, sig []byte) error {
	if err := pk.Validate(); err != nil {
		return err
	}
	if len(sig) != Ed25519SignatureSize {
		return fmt.Errorf("%w: %d", ErrBadSignatureLength, len(sig))
	}
	var s [Ed25519SignatureSize]byte
	copy(s[:], sig)
	if !ed25519ConsensusVerifySingle(pk.Ed25519, d[:], s) {
		return ErrBadSignature
	}
	return nil
}

// KeyedSignature is a signature together with the public key that made it.
// The key has to travel with the signature because ed25519 does not
// support public key recovery.
type KeyedSignature struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	PublicKey PublicKey `codec:"pk"`
	Signature []byte    `codec:"sig,allocbound=Ed25519SignatureSize"`
}

// Verify checks that ks signs s on the given network.
func (ks KeyedSignature) Verify(networkID protocol.NetworkID, s Signable) error {
	return ks.PublicKey.VerifyDigest(HashSignable(networkID, s), ks.Signature)
}

// VerifyKeyed is the shared signature check behind every verifier: it
// recomputes the domain separated digest of s and verifies ks against it.
func VerifyKeyed(networkID protocol.NetworkID, s Signable, ks KeyedSignature) bool {
	return ks.Verify(networkID, s) == nil
}

// Seed holds the entropy needed to generate cryptographic keys.
type Seed [ed25519.SeedSize]byte

// SignatureSecrets are used by an entity to produce keyed signatures.
type SignatureSecrets struct {
	SignatureVerifier PublicKey
	sk                ed25519.PrivateKey
}

// GenerateSignatureSecrets creates SignatureSecrets from a source of entropy.
func GenerateSignatureSecrets(seed Seed) *SignatureSecrets {
	sk := ed25519.NewKeyFromSeed(seed[:])
	var pk [Ed25519PublicKeySize]byte
	copy(pk[:], sk[ed25519.SeedSize:])
	return &SignatureSecrets{SignatureVerifier: Ed25519PublicKey(pk), sk: sk}
}

// Sign produces a signature of the digest of s on the given network.
func (s *SignatureSecrets) Sign(networkID protocol.NetworkID, msg Signable) []byte {
	d := HashSignable(networkID, msg)
	return ed25519.Sign(s.sk, d[:])
}

// SignKeyed is Sign with the signer's public key attached.
func (s *SignatureSecrets) SignKeyed(networkID protocol.NetworkID, msg Signable) KeyedSignature {
	return KeyedSignature{PublicKey: s.SignatureVerifier, Signature: s.Sign(networkID, msg)}
}

// RandBytes fills the provided structure with a set of random bytes
func RandBytes(buf []byte) {
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
}

// Version bytes for the checksummed string encoding. They are chosen so the
// base32 form starts with a recognizable letter.
const (
	VersionPublicKey byte = 6 << 3 // G
	VersionContract  byte = 2 << 3 // C
)

const checksumLength = 4

func checksum(version byte, payload []byte) []byte {
	h := Hash(append([]byte{version}, payload...))
	return h[len(h)-checksumLength:]
}

// EncodeChecksummed returns base32(version || payload || checksum).
func EncodeChecksummed(version byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+checksumLength)
	buf = append(buf, version)
	buf = append(buf, payload...)
	buf = append(buf, checksum(version, payload)...)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
}

// DecodeChecksummed reverses EncodeChecksummed, returning the version byte
// and payload. The checksum and the canonical form are both enforced.
func DecodeChecksummed(s string) (byte, []byte, error) {
	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to decode %s from base 32: %w", s, err)
	}
	if len(decoded) < 1+checksumLength {
		return 0, nil, fmt.Errorf("decoded string %s is too short", s)
	}
	version := decoded[0]
	payload := decoded[1 : len(decoded)-checksumLength]
	if !bytes.Equal(decoded[len(decoded)-checksumLength:], checksum(version, payload)) {
		return 0, nil, fmt.Errorf("%s is malformed: %w", s, errBadChecksum)
	}
	if EncodeChecksummed(version, payload) != s {
		return 0, nil, fmt.Errorf("%s is non-canonical", s)
	}
	return version, payload, nil
}

// ParsePublicKey parses the "G..." form of a public key.
func ParsePublicKey(s string) (PublicKey, error) {
	version, payload, err := DecodeChecksummed(s)
	if err != nil {
		return PublicKey{}, err
	}
	if version != VersionPublicKey {
		return PublicKey{}, fmt.Errorf("%s is not a public key (version %d)", s, version)
	}
	return PublicKeyFromBytes(payload)
}
