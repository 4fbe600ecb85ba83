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

// Package ledger applies invocation envelopes to account state.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions/verify"
)

// ErrCommitConflict is returned by Commit when the account no longer
// accepts the sequence number or fee it was validated against.
var ErrCommitConflict = errors.New("account changed since validation")

// AccountStore is the account state an Evaluator reads and commits to.
// Accounts that were never stored report zero values.
type AccountStore interface {
	verify.LedgerForValidation

	// Lookup returns the account at addr and whether it exists.
	Lookup(addr basics.Address) (basics.AccountData, bool, error)
	// Put creates or replaces an account.
	Put(ctx context.Context, rec basics.BalanceRecord) error
	// Commit advances the sequence number of addr to seq and removes fee
	// from its balance, atomically.
	Commit(ctx context.Context, addr basics.Address, seq uint64, fee uint64) error
}

func copyAccount(ad basics.AccountData) basics.AccountData {
	ad.Signers = append([]basics.Signer(nil), ad.Signers...)
	return ad
}

// chargeFee applies a commit to an account, reporting conflicts.
func chargeFee(addr basics.Address, ad basics.AccountData, seq, fee uint64) (basics.AccountData, error) {
	updated, err := ad.WithFeeCharged(seq, fee)
	if err != nil {
		return ad, fmt.Errorf("commit %s: %w: %v", addr, ErrCommitConflict, err)
	}
	return updated, nil
}

// MemoryStore is an AccountStore held in memory.
type MemoryStore struct {
	mu       deadlock.RWMutex
	accounts map[basics.Address]basics.AccountData
}

// NewMemoryStore creates a store holding recs.
func NewMemoryStore(recs ...basics.BalanceRecord) *MemoryStore {
	s := &MemoryStore{accounts: make(map[basics.Address]basics.AccountData, len(recs))}
	for _, rec := range recs {
		s.accounts[rec.Addr] = copyAccount(rec.AccountData)
	}
	return s
}

// Lookup implements AccountStore.
func (s *MemoryStore) Lookup(addr basics.Address) (basics.AccountData, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ad, ok := s.accounts[addr]
	return copyAccount(ad), ok, nil
}

// Put implements AccountStore.
func (s *MemoryStore) Put(ctx context.Context, rec basics.BalanceRecord) error {
	if err := rec.Addr.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[rec.Addr] = copyAccount(rec.AccountData)
	return nil
}

// Commit implements AccountStore.
func (s *MemoryStore) Commit(ctx context.Context, addr basics.Address, seq uint64, fee uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	updated, err := chargeFee(addr, s.accounts[addr], seq, fee)
	if err != nil {
		return err
	}
	s.accounts[addr] = updated
	return nil
}

func (s *MemoryStore) get(addr basics.Address) basics.AccountData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[addr]
}

// SeqNum implements verify.LedgerForValidation.
func (s *MemoryStore) SeqNum(addr basics.Address) (uint64, error) {
	return s.get(addr).SeqNum, nil
}

// AvailableBalance implements verify.LedgerForValidation.
func (s *MemoryStore) AvailableBalance(addr basics.Address) (uint64, error) {
	return s.get(addr).AvailableBalance(), nil
}

// LowThreshold implements verify.LedgerForValidation.
func (s *MemoryStore) LowThreshold(addr basics.Address) (uint8, error) {
	return s.get(addr).Thresholds.Low, nil
}

// SignerWeight implements verify.LedgerForValidation.
func (s *MemoryStore) SignerWeight(addr basics.Address, key crypto.PublicKey) (uint64, error) {
	return s.get(addr).SignerWeight(addr, key), nil
}
