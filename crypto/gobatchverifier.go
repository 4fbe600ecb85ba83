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
	"errors"

	"github.com/hdevalence/ed25519consensus"
)

// ErrBatchHasFailedSigs is returned when at least one signature in a batch fails.
var ErrBatchHasFailedSigs = errors.New("at least one signature didn't pass verification")

const minBatchVerifierAlloc = 16

// ed25519ConsensusVerifySingle performs single signature verification using ed25519consensus,
// with additional checks to reject non-canonical encodings and small-order public keys.
func ed25519ConsensusVerifySingle(publicKey [32]byte, message []byte, signature [64]byte) bool {
	// Check for non-canonical public key or R (first 32 bytes of signature), and reject small-order public keys
	if !isCanonicalPoint(publicKey) || !isCanonicalPoint([32]byte(signature[:32])) || hasSmallOrder(publicKey) {
		return false
	}

	return ed25519consensus.Verify(publicKey[:], message, signature[:])
}

type batchEntry struct {
	digest       Digest
	publicKey    PublicKey
	signature    [Ed25519SignatureSize]byte
	failedChecks bool
}

// BatchVerifier verifies many keyed signatures at once. Entries with an
// unknown key type, a malformed signature length, a non-canonical encoding
// or a small-order key never reach the batch and are reported as failed.
type BatchVerifier struct {
	entries      []batchEntry
	failedChecks bool
	bv           ed25519consensus.BatchVerifier
}

// MakeBatchVerifier creates a BatchVerifier sized for hint signatures.
func MakeBatchVerifier(hint int) *BatchVerifier {
	if hint <= 0 {
		hint = minBatchVerifierAlloc
	}
	return &BatchVerifier{
		entries: make([]batchEntry, 0, hint),
		bv:      ed25519consensus.NewPreallocatedBatchVerifier(hint),
	}
}

// EnqueueSignature adds a signature over d to the batch.
func (b *BatchVerifier) EnqueueSignature(pk PublicKey, d Digest, sig []byte) {
	entry := batchEntry{digest: d, publicKey: pk}
	if pk.Validate() != nil || len(sig) != Ed25519SignatureSize {
		entry.failedChecks = true
	} else {
		copy(entry.signature[:], sig)
		key := pk.Ed25519
		entry.failedChecks = !isCanonicalPoint(key) || !isCanonicalPoint([32]byte(entry.signature[:32])) || hasSmallOrder(key)
	}
	b.entries = append(b.entries, entry)

	if entry.failedChecks {
		b.failedChecks = true
	} else {
		b.bv.Add(pk.Ed25519[:], d[:], entry.signature[:])
	}
}

// GetNumberOfEnqueuedSignatures returns the number of signatures currently enqueued into the BatchVerifier
func (b *BatchVerifier) GetNumberOfEnqueuedSignatures() int {
	return len(b.entries)
}

// Verify verifies that all the signatures are valid. in that case nil is returned
func (b *BatchVerifier) Verify() error {
	if len(b.entries) == 0 {
		return nil
	}

	// Fail if any pre-checks failed or if batch verification fails
	if b.failedChecks || !b.bv.Verify() {
		return ErrBatchHasFailedSigs
	}
	return nil
}

// VerifyWithFeedback verifies that all the signatures are valid.
// if all the signatures are valid, nil is returned
// if some signatures are invalid, true will be set in "failed" at the corresponding indexes, and
// ErrBatchHasFailedSigs will be returned
func (b *BatchVerifier) VerifyWithFeedback() (failed []bool, err error) {
	if len(b.entries) == 0 {
		return nil, nil
	}

	if !b.failedChecks && b.bv.Verify() {
		return nil, nil
	}

	failed = make([]bool, len(b.entries))
	for i := range b.entries {
		if b.entries[i].failedChecks {
			failed[i] = true
		} else {
			failed[i] = !ed25519ConsensusVerifySingle(b.entries[i].publicKey.Ed25519, b.entries[i].digest[:], b.entries[i].signature)
		}
	}

	return failed, ErrBatchHasFailedSigs
}

// Check that Y is canonical, using the succeed-fast algorithm from
// the "Taming the many EdDSAs" paper.
func isCanonicalY(p [32]byte) bool {
	if p[0] < 237 {
		return true
	}
	for i := 1; i < 31; i++ {
		if p[i] != 255 {
			return true
		}
	}
	return (p[31] | 128) != 255
}

// isCanonicalPoint is a variable-time check that returns true if the
// 32-byte ed25519 point encoding is canonical.
func isCanonicalPoint(p [32]byte) bool {
	if !isCanonicalY(p) {
		return false
	}

	// Points number 9 and 10 from Table 1 of the "Taming the many EdDSAs"
	// paper have a non-canonical sign bit the y-coordinate check misses.
	if p == [32]byte{ // (−0, 1)
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80,
	} || p == [32]byte{ // (-0, 2^255-20)
		0xec, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	} {
		return false
	}

	return true
}

// from libsodium/crypto_core/ed25519/ref10/ed25519_ref10.c ge25519_has_small_order
var smallOrderPoints = [][32]byte{
	/* 0 (order 4) */ {
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	/* 1 (order 1) */ {
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	/* 2707385501144840649318225287225658788936804267575313519463743609750303402022
	   (order 8) */{
		0x26, 0xe8, 0x95, 0x8f, 0xc2, 0xb2, 0x27, 0xb0, 0x45, 0xc3, 0xf4,
		0x89, 0xf2, 0xef, 0x98, 0xf0, 0xd5, 0xdf, 0xac, 0x05, 0xd3, 0xc6,
		0x33, 0x39, 0xb1, 0x38, 0x02, 0x88, 0x6d, 0x53, 0xfc, 0x05},
	/* 55188659117513257062467267217118295137698188065244968500265048394206261417927
	   (order 8) */{
		0xc7, 0x17, 0x6a, 0x70, 0x3d, 0x4d, 0xd8, 0x4f, 0xba, 0x3c, 0x0b,
		0x76, 0x0d, 0x10, 0x67, 0x0f, 0x2a, 0x20, 0x53, 0xfa, 0x2c, 0x39,
		0xcc, 0xc6, 0x4e, 0xc7, 0xfd, 0x77, 0x92, 0xac, 0x03, 0x7a},
	/* p-1 (order 2) */ {
		0xec, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	/* p (=0, order 4) */ {
		0xed, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	/* p+1 (=1, order 1) */ {
		0xee, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
}

// hasSmallOrder checks if a point is in the small-order blacklist.
// Based on libsodium ge25519_has_small_order, but this version is variable-time.
func hasSmallOrder(p [32]byte) bool {
	for _, point := range smallOrderPoints {
		if !bytes.Equal(p[:31], point[:31]) {
			continue
		}
		// For the last byte, ignore the sign bit (bit 7)
		if (p[31] & 0x7f) == point[31] {
			return true
		}
	}
	return false
}
