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

package protocol

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
)

// NetworkIDSize is the length of a NetworkID in bytes.
const NetworkIDSize = 32

// NetworkID identifies the network a signature is valid on. It is the
// SHA-256 digest of the network passphrase and prefixes every signable
// payload, so a signature made for one network never verifies on another.
type NetworkID [NetworkIDSize]byte

// IsZero is true if the NetworkID was never set.
func (n NetworkID) IsZero() bool {
	return n == NetworkID{}
}

// String returns the hex encoding of the network ID.
func (n NetworkID) String() string {
	return hex.EncodeToString(n[:])
}

// ShortString returns a short base32 form suitable for log fields.
func (n NetworkID) ShortString() string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(n[:6])
}

// ParseNetworkID parses the hex form produced by String.
func ParseNetworkID(s string) (NetworkID, error) {
	var n NetworkID
	b, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("network id %q: %w", s, err)
	}
	if len(b) != NetworkIDSize {
		return n, fmt.Errorf("network id %q has %d bytes, want %d", s, len(b), NetworkIDSize)
	}
	copy(n[:], b)
	return n, nil
}

// ConsensusVersion is a string that identifies a version of the
// consensus protocol.
type ConsensusVersion string

// ConsensusV1 is the first protocol version that supports contract
// invocation envelopes.
const ConsensusV1 = ConsensusVersion("invoker-v1")

// ConsensusCurrentVersion is the latest version and should be used
// when a specific version is not provided.
const ConsensusCurrentVersion = ConsensusV1

// Error is used to indicate that an unsupported protocol has been detected.
type Error ConsensusVersion

// Error satisfies builtin interface `error`
func (err Error) Error() string {
	proto := ConsensusVersion(err)
	return fmt.Sprintf("protocol not supported: %s", proto)
}
