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

package verify

import (
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/util/metrics"
)

var messageGoodTotal = metrics.MakeCounter(metrics.MessageSignatureOK)
var messageRejTotal = metrics.MakeCounter(metrics.MessageSignatureRejected)

// MessagePayload is the signable form of an arbitrary presigned message:
// the message is hashed and the hash is signed in the message domain.
func MessagePayload(networkID protocol.NetworkID, message []byte) crypto.SignablePayload {
	h := crypto.Hash(message)
	return crypto.SignablePayload{NetworkID: networkID, Type: protocol.EnvelopeTypeMessage, Body: h[:]}
}

// Message reports whether ks signs message on the given network. It is
// the check behind the verify_message host function.
//
// Message does not stop a signature made for one contract from being
// accepted by another; callers should sign a PresignedMessage naming the
// verifying contract and a domain.
func Message(networkID protocol.NetworkID, message []byte, ks crypto.KeyedSignature) bool {
	if crypto.VerifyKeyed(networkID, MessagePayload(networkID, message), ks) {
		messageGoodTotal.Inc()
		return true
	}
	messageRejTotal.Inc()
	return false
}

// SignMessage produces the keyed signature Message accepts.
func SignMessage(s *crypto.SignatureSecrets, networkID protocol.NetworkID, message []byte) crypto.KeyedSignature {
	return s.SignKeyed(networkID, MessagePayload(networkID, message))
}

// PresignedMessage is the recommended structure for messages verified by
// contracts. Binding the verifying contract and an application domain into
// the signed bytes keeps a signature from being replayed elsewhere.
type PresignedMessage struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	VerifyingContract basics.ContractID `codec:"vc"`
	Domain            string            `codec:"dom"`
	Payload           []byte            `codec:"p"`
}

// Encode returns the canonical bytes to sign and verify.
func (m PresignedMessage) Encode() []byte {
	return protocol.Encode(&m)
}

// DecodePresignedMessage parses the output of Encode.
func DecodePresignedMessage(b []byte) (PresignedMessage, error) {
	var m PresignedMessage
	err := protocol.Decode(b, &m)
	return m, err
}
