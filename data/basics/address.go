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

package basics

import (
	"fmt"

	"github.com/algorand/go-invoker/crypto"
)

// ContractID identifies a deployed contract.
type ContractID crypto.Digest

// IsZero is true for the unset contract ID.
func (id ContractID) IsZero() bool {
	return id == ContractID{}
}

// String returns the checksummed "C..." form of the contract ID.
func (id ContractID) String() string {
	return crypto.EncodeChecksummed(crypto.VersionContract, id[:])
}

// AddressType is the tag of the Address union.
type AddressType uint32

const (
	// AddressTypeContract identifies a contract.
	AddressTypeContract AddressType = 0
	// AddressTypePublicKey identifies a holder of a signing key.
	AddressTypePublicKey AddressType = 1
)

// Known reports whether t is a defined address type.
func (t AddressType) Known() bool {
	return t == AddressTypeContract || t == AddressTypePublicKey
}

func (t AddressType) String() string {
	switch t {
	case AddressTypeContract:
		return "contract"
	case AddressTypePublicKey:
		return "publickey"
	default:
		return fmt.Sprintf("addresstype(%d)", uint32(t))
	}
}

// Address is the identity of a principal: either a contract or the holder
// of a public key. Only the field matching Type is populated. Address is a
// value type; two addresses are equal when tag and value are equal, so ==
// may be used.
type Address struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type      AddressType      `codec:"t"`
	Contract  ContractID       `codec:"c"`
	PublicKey crypto.PublicKey `codec:"pk"`
}

// ContractIdentity returns the address of a contract.
func ContractIdentity(id ContractID) Address {
	return Address{Type: AddressTypeContract, Contract: id}
}

// PublicKeyIdentity returns the address of the holder of pk.
func PublicKeyIdentity(pk crypto.PublicKey) Address {
	return Address{Type: AddressTypePublicKey, PublicKey: pk}
}

// IsContract reports whether addr identifies a contract.
func (addr Address) IsContract() bool {
	return addr.Type == AddressTypeContract
}

// IsZero is true for the zero value, which is never a valid identity.
func (addr Address) IsZero() bool {
	return addr == Address{}
}

// Validate checks that the tag is known and that only the matching variant
// is populated. Decoded addresses must be validated before use.
func (addr Address) Validate() error {
	switch addr.Type {
	case AddressTypeContract:
		if addr.Contract.IsZero() {
			return fmt.Errorf("contract address has no contract id")
		}
		if !addr.PublicKey.IsZero() {
			return fmt.Errorf("contract address carries a public key")
		}
		return nil
	case AddressTypePublicKey:
		if !addr.Contract.IsZero() {
			return fmt.Errorf("public key address carries a contract id")
		}
		return addr.PublicKey.Validate()
	default:
		return fmt.Errorf("unknown address type %d", uint32(addr.Type))
	}
}

// String returns the checksummed form: "C..." for contracts, "G..." for keys.
func (addr Address) String() string {
	switch addr.Type {
	case AddressTypeContract:
		return addr.Contract.String()
	case AddressTypePublicKey:
		return addr.PublicKey.String()
	default:
		return fmt.Sprintf("<%s>", addr.Type)
	}
}

// ParseAddress parses the output of Address.String. Unknown prefixes,
// bad checksums and non-canonical strings are rejected.
func ParseAddress(s string) (Address, error) {
	version, payload, err := crypto.DecodeChecksummed(s)
	if err != nil {
		return Address{}, err
	}
	switch version {
	case crypto.VersionContract:
		var id ContractID
		if len(payload) != len(id) {
			return Address{}, fmt.Errorf("contract address %s has %d bytes", s, len(payload))
		}
		copy(id[:], payload)
		return ContractIdentity(id), nil
	case crypto.VersionPublicKey:
		pk, err := crypto.PublicKeyFromBytes(payload)
		if err != nil {
			return Address{}, fmt.Errorf("address %s: %w", s, err)
		}
		return PublicKeyIdentity(pk), nil
	default:
		return Address{}, fmt.Errorf("address %s has unknown kind %d", s, version)
	}
}

// MarshalText returns the address string as an array of bytes
func (addr Address) MarshalText() ([]byte, error) {
	if !addr.Type.Known() {
		return nil, fmt.Errorf("cannot marshal %s", addr.Type)
	}
	return []byte(addr.String()), nil
}

// UnmarshalText initializes the Address from an array of bytes.
func (addr *Address) UnmarshalText(text []byte) error {
	address, err := ParseAddress(string(text))
	if err == nil {
		*addr = address
		return nil
	}
	return err
}
