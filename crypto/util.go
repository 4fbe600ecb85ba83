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
	"github.com/algorand/go-invoker/protocol"
)

// Signable is implemented by every object that can be hashed or signed.
// It returns the envelope type that separates its domain from every other
// signable kind, together with its canonical body bytes.
type Signable interface {
	ToBeSigned() (protocol.EnvelopeType, []byte)
}

// SignablePayload is the preimage of every digest that gets signed:
// the network ID, a 4-byte envelope type and the body.
type SignablePayload struct {
	NetworkID protocol.NetworkID
	Type      protocol.EnvelopeType
	Body      []byte
}

// ToBeSigned implements Signable, so a SignablePayload can be handed around
// in place of the object it was built from.
func (p SignablePayload) ToBeSigned() (protocol.EnvelopeType, []byte) {
	return p.Type, p.Body
}

// Digest returns the hash of the payload.
func (p SignablePayload) Digest() Digest {
	return HashSignable(p.NetworkID, p)
}

// HashRep builds the preimage networkID || type || body. This is the one
// place domain separation is implemented; every signature and every
// derived identifier goes through it.
func HashRep(networkID protocol.NetworkID, s Signable) []byte {
	t, body := s.ToBeSigned()
	buf := make([]byte, 0, protocol.NetworkIDSize+protocol.EnvelopeTypeSize+len(body))
	buf = append(buf, networkID[:]...)
	buf = t.AppendBytes(buf)
	return append(buf, body...)
}

// HashSignable computes the digest of a Signable on a given network.
func HashSignable(networkID protocol.NetworkID, s Signable) Digest {
	return Hash(HashRep(networkID, s))
}

// NetworkIDFromPassphrase derives the network ID from its passphrase.
func NetworkIDFromPassphrase(passphrase string) protocol.NetworkID {
	return protocol.NetworkID(Hash([]byte(passphrase)))
}
