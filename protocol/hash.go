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
	"encoding/binary"
	"fmt"
)

// EnvelopeType is the domain separation discriminant for an object that
// might be hashed or signed. It is always written as a fixed-width 4-byte
// big-endian value, so the hash of a transaction will never collide with
// the hash of a presigned message or of a contract ID preimage.
type EnvelopeType uint32

// Envelope types. Values are part of the wire format; never renumber.
const (
	EnvelopeTypeTxV0       EnvelopeType = 0
	EnvelopeTypeSCP        EnvelopeType = 1
	EnvelopeTypeTx         EnvelopeType = 2
	EnvelopeTypeAuth       EnvelopeType = 3
	EnvelopeTypeSCPValue   EnvelopeType = 4
	EnvelopeTypeTxFeeBump  EnvelopeType = 5
	EnvelopeTypeOpID       EnvelopeType = 6
	EnvelopeTypeContractID EnvelopeType = 7
	EnvelopeTypeInvoke     EnvelopeType = 8
	EnvelopeTypeMessage    EnvelopeType = 9
)

// EnvelopeTypeSize is the number of bytes an EnvelopeType occupies in a
// signable payload.
const EnvelopeTypeSize = 4

var envelopeTypeNames = map[EnvelopeType]string{
	EnvelopeTypeTxV0:       "txv0",
	EnvelopeTypeSCP:        "scp",
	EnvelopeTypeTx:         "tx",
	EnvelopeTypeAuth:       "auth",
	EnvelopeTypeSCPValue:   "scpvalue",
	EnvelopeTypeTxFeeBump:  "txfeebump",
	EnvelopeTypeOpID:       "opid",
	EnvelopeTypeContractID: "contractid",
	EnvelopeTypeInvoke:     "invoke",
	EnvelopeTypeMessage:    "message",
}

// Known reports whether t is one of the defined envelope types.
func (t EnvelopeType) Known() bool {
	_, ok := envelopeTypeNames[t]
	return ok
}

func (t EnvelopeType) String() string {
	if name, ok := envelopeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("envelope(%d)", uint32(t))
}

// AppendBytes appends the 4-byte big-endian representation of t to b.
func (t EnvelopeType) AppendBytes(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(t))
}
