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

package transactions

import (
	"fmt"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/protocol"
)

// Txid is a hash used to uniquely identify individual transactions
type Txid crypto.Digest

// String converts txid to a pretty-printable string
func (txid Txid) String() string {
	return fmt.Sprintf("%v", crypto.Digest(txid))
}

// FromString initializes the Txid from a string
func (txid *Txid) FromString(text string) error {
	d, err := crypto.DigestFromString(text)
	*txid = Txid(d)
	return err
}

// InvokeTargetType is the tag of the InvokeTarget union.
type InvokeTargetType uint32

const (
	// InvokeByReference calls an already deployed contract by its ID.
	InvokeByReference InvokeTargetType = 0
	// InvokeByCode runs bytecode carried in the envelope.
	InvokeByCode InvokeTargetType = 1
)

func (t InvokeTargetType) String() string {
	switch t {
	case InvokeByReference:
		return "reference"
	case InvokeByCode:
		return "code"
	}
	return fmt.Sprintf("target(%d)", uint32(t))
}

// InvokeTarget names the contract an envelope invokes.
type InvokeTarget struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type       InvokeTargetType  `codec:"t"`
	ContractID basics.ContractID `codec:"id"`
	Bytecode   []byte            `codec:"code,allocbound=-"`
}

// ByReference targets a deployed contract.
func ByReference(id basics.ContractID) InvokeTarget {
	return InvokeTarget{Type: InvokeByReference, ContractID: id}
}

// ByCode targets bytecode carried in the envelope.
func ByCode(code []byte) InvokeTarget {
	return InvokeTarget{Type: InvokeByCode, Bytecode: code}
}

// validateTag checks the union tag and that exactly the matching variant is
// populated. It does not check sizes.
func (t InvokeTarget) validateTag() error {
	switch t.Type {
	case InvokeByReference:
		if t.ContractID.IsZero() {
			return fmt.Errorf("invocation by reference has no contract id")
		}
		if len(t.Bytecode) != 0 {
			return fmt.Errorf("invocation by reference carries bytecode")
		}
	case InvokeByCode:
		if len(t.Bytecode) == 0 {
			return fmt.Errorf("invocation by code has no bytecode")
		}
		if !t.ContractID.IsZero() {
			return fmt.Errorf("invocation by code carries a contract id")
		}
	default:
		return fmt.Errorf("unknown invocation target type %d", uint32(t.Type))
	}
	return nil
}

// InvocationBody holds every field that defines an invocation. It is the
// part of an envelope covered by both the fee signatures and the invoker
// signature.
type InvocationBody struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Source     basics.Address `codec:"src"`
	SeqNum     uint64         `codec:"seq"`
	Fee        uint64         `codec:"fee"`
	Target     InvokeTarget   `codec:"tgt"`
	Symbol     string         `codec:"sym"`
	Parameters []basics.Value `codec:"args,allocbound=-"`
}

// ToBeSigned returns the body in the transaction domain. Fee signatures
// and the transaction ID are computed over this representation.
func (b InvocationBody) ToBeSigned() (protocol.EnvelopeType, []byte) {
	return protocol.EnvelopeTypeTx, protocol.Encode(&b)
}

// FeePayload is the payload fee signatures are checked against.
func (b InvocationBody) FeePayload(networkID protocol.NetworkID) crypto.SignablePayload {
	return crypto.SignablePayload{NetworkID: networkID, Type: protocol.EnvelopeTypeTx, Body: protocol.Encode(&b)}
}

// InvokerPayload is the payload the invoker signature is checked against.
// It carries the same body bytes as FeePayload under a different type, so
// a fee signature can never be replayed as an invoker signature.
func (b InvocationBody) InvokerPayload(networkID protocol.NetworkID) crypto.SignablePayload {
	return crypto.SignablePayload{NetworkID: networkID, Type: protocol.EnvelopeTypeInvoke, Body: protocol.Encode(&b)}
}

// ID returns the transaction ID of the invocation on the given network.
func (b InvocationBody) ID(networkID protocol.NetworkID) Txid {
	return Txid(crypto.HashSignable(networkID, b))
}

// WellFormed checks the body's schema against the protocol limits. It does
// not look at the ledger or at any signature.
func (b InvocationBody) WellFormed(proto config.ConsensusParams) error {
	if b.Source.Type != basics.AddressTypePublicKey {
		return fmt.Errorf("source %s is not an account", b.Source.Type)
	}
	if err := b.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := basics.ValidateSymbol(b.Symbol, proto.MaxSymbolLen); err != nil {
		return err
	}
	if len(b.Parameters) > proto.MaxInvocationParams {
		return fmt.Errorf("%d parameters exceed the limit of %d", len(b.Parameters), proto.MaxInvocationParams)
	}
	for i, p := range b.Parameters {
		if err := p.Validate(proto.MaxValueBytes, proto.MaxSymbolLen); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	if err := b.Target.validateTag(); err != nil {
		return err
	}
	if b.Target.Type == InvokeByCode && len(b.Target.Bytecode) > proto.MaxBytecodeSize {
		return fmt.Errorf("bytecode of %d bytes exceeds %d", len(b.Target.Bytecode), proto.MaxBytecodeSize)
	}
	if b.Fee < proto.MinFee {
		return fmt.Errorf("fee %d below the minimum of %d", b.Fee, proto.MinFee)
	}
	return nil
}

// InvocationEnvelope is a signed request to invoke a contract function.
type InvocationEnvelope struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Body             InvocationBody          `codec:"body"`
	FeeSignatures    []crypto.KeyedSignature `codec:"fsig,allocbound=-"`
	InvokerSignature crypto.KeyedSignature   `codec:"isig"`
}

// ID returns the transaction ID of the envelope on the given network.
func (env InvocationEnvelope) ID(networkID protocol.NetworkID) Txid {
	return env.Body.ID(networkID)
}

// WellFormed checks the complete envelope schema. Every failure is
// reported as MALFORMED.
func (env InvocationEnvelope) WellFormed(proto config.ConsensusParams) error {
	if err := env.Body.WellFormed(proto); err != nil {
		return NewInvocationError(ErrorKindMalformed, err)
	}
	if len(env.FeeSignatures) > proto.MaxFeeSignatures {
		return Errorf(ErrorKindMalformed, "%d fee signatures exceed the limit of %d", len(env.FeeSignatures), proto.MaxFeeSignatures)
	}
	for i, fs := range env.FeeSignatures {
		if err := fs.PublicKey.Validate(); err != nil {
			return Errorf(ErrorKindMalformed, "fee signature %d: %w", i, err)
		}
	}
	if err := env.InvokerSignature.PublicKey.Validate(); err != nil {
		return Errorf(ErrorKindMalformed, "invoker signature: %w", err)
	}
	return nil
}

// Sign builds an envelope for b, with one fee signature per feeSigner and
// the invoker signature made by invoker.
func (b InvocationBody) Sign(networkID protocol.NetworkID, invoker *crypto.SignatureSecrets, feeSigners ...*crypto.SignatureSecrets) InvocationEnvelope {
	env := InvocationEnvelope{
		Body:             b,
		InvokerSignature: invoker.SignKeyed(networkID, b.InvokerPayload(networkID)),
	}
	fee := b.FeePayload(networkID)
	for _, s := range feeSigners {
		env.FeeSignatures = append(env.FeeSignatures, s.SignKeyed(networkID, fee))
	}
	return env
}

// Encode returns the canonical encoding of the envelope.
func (env InvocationEnvelope) Encode() []byte {
	return protocol.Encode(&env)
}

// DecodeInvocationEnvelope decodes an envelope and checks every union tag
// it carries. Failures are MALFORMED.
func DecodeInvocationEnvelope(b []byte) (InvocationEnvelope, error) {
	var env InvocationEnvelope
	if err := protocol.Decode(b, &env); err != nil {
		return InvocationEnvelope{}, NewInvocationError(ErrorKindMalformed, err)
	}
	if err := env.validateTags(); err != nil {
		return InvocationEnvelope{}, NewInvocationError(ErrorKindMalformed, err)
	}
	return env, nil
}

func (env InvocationEnvelope) validateTags() error {
	if err := env.Body.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := env.Body.Target.validateTag(); err != nil {
		return err
	}
	for i, p := range env.Body.Parameters {
		if !p.Type.Known() {
			return fmt.Errorf("parameter %d has unknown type %d", i, uint32(p.Type))
		}
		if p.Type == basics.ValueTypeAddress {
			if err := p.Addr.Validate(); err != nil {
				return fmt.Errorf("parameter %d: %w", i, err)
			}
		}
	}
	for i, fs := range env.FeeSignatures {
		if err := fs.PublicKey.Validate(); err != nil {
			return fmt.Errorf("fee signature %d: %w", i, err)
		}
	}
	return env.InvokerSignature.PublicKey.Validate()
}
