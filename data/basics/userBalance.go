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

// Thresholds are the signature weights an account requires for operations
// of low, medium and high sensitivity. Fee authorization uses Low.
type Thresholds struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Low  uint8 `codec:"l"`
	Med  uint8 `codec:"m"`
	High uint8 `codec:"h"`
}

// Signer is an additional key allowed to sign for an account.
type Signer struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Key    crypto.PublicKey `codec:"k"`
	Weight uint8            `codec:"w"`
}

// AccountData contains the data associated with a given address.
//
// The master key of an account is the public key of its own address, and
// it signs with MasterWeight.
type AccountData struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	SeqNum       uint64     `codec:"seq"`
	Balance      uint64     `codec:"bal"`
	MinBalance   uint64     `codec:"min"`
	MasterWeight uint8      `codec:"mw"`
	Thresholds   Thresholds `codec:"thr"`
	Signers      []Signer   `codec:"sig"`
}

// AvailableBalance is what the account may spend without going under its
// minimum balance.
func (u AccountData) AvailableBalance() uint64 {
	return SubSaturate(u.Balance, u.MinBalance)
}

// SignerWeight returns the weight key carries for the account at addr:
// MasterWeight for the address' own key, the listed weight for an extra
// signer, and zero otherwise.
func (u AccountData) SignerWeight(addr Address, key crypto.PublicKey) uint64 {
	if addr.Type == AddressTypePublicKey && addr.PublicKey == key {
		return uint64(u.MasterWeight)
	}
	for _, s := range u.Signers {
		if s.Key == key {
			return uint64(s.Weight)
		}
	}
	return 0
}

// WithFeeCharged returns the account after a successful application: the
// sequence number advanced to seq and the fee removed from the balance.
func (u AccountData) WithFeeCharged(seq uint64, fee uint64) (AccountData, error) {
	if seq != u.SeqNum+1 {
		return u, fmt.Errorf("sequence %d does not follow %d", seq, u.SeqNum)
	}
	bal, overflowed := OSub(u.Balance, fee)
	if overflowed || bal < u.MinBalance {
		return u, fmt.Errorf("fee %d exceeds available balance %d", fee, u.AvailableBalance())
	}
	u.SeqNum = seq
	u.Balance = bal
	return u, nil
}

// BalanceRecord pairs an account with its address.
type BalanceRecord struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Addr Address `codec:"addr"`

	AccountData
}
