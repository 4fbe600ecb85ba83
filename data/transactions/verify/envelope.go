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
	"errors"
	"fmt"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/util/metrics"
)

var envelopeRejTotal = metrics.NewTagCounter(metrics.EnvelopeRejected, "kind")

var (
	errFeeSignatureInvalid  = errors.New("fee signature does not verify")
	errFeeThresholdNotMet   = errors.New("fee signatures do not reach the low threshold")
	errFeeSignatureOverflow = errors.New("fee signature weights overflow")
)

// LedgerForValidation answers the account questions envelope validation
// needs. Accounts that do not exist report zero values. An error is only
// returned when the ledger itself fails.
type LedgerForValidation interface {
	SeqNum(acct basics.Address) (uint64, error)
	AvailableBalance(acct basics.Address) (uint64, error)
	LowThreshold(acct basics.Address) (uint8, error)
	SignerWeight(acct basics.Address, key crypto.PublicKey) (uint64, error)
}

// Envelope checks the fee-payer preconditions of an invocation envelope:
// schema, sequence number, balance and fee signature threshold, in that
// order. It returns nil or a *transactions.InvocationError. Errors from the
// ledger itself are returned unclassified.
//
// Envelope has no side effects.
func Envelope(env transactions.InvocationEnvelope, networkID protocol.NetworkID, proto config.ConsensusParams, ledger LedgerForValidation) error {
	err := envelope(env, networkID, proto, ledger)
	if kind := transactions.KindOf(err); kind != 0 {
		envelopeRejTotal.Add(kind.String(), 1)
	}
	return err
}

func envelope(env transactions.InvocationEnvelope, networkID protocol.NetworkID, proto config.ConsensusParams, ledger LedgerForValidation) error {
	if err := env.WellFormed(proto); err != nil {
		return err
	}

	source := env.Body.Source
	seq, err := ledger.SeqNum(source)
	if err != nil {
		return fmt.Errorf("envelope: sequence lookup for %s: %w", source, err)
	}
	if env.Body.SeqNum != seq+1 {
		return transactions.Errorf(transactions.ErrorKindSeqMismatch, "envelope sequence %d, account %s is at %d", env.Body.SeqNum, source, seq)
	}

	available, err := ledger.AvailableBalance(source)
	if err != nil {
		return fmt.Errorf("envelope: balance lookup for %s: %w", source, err)
	}
	if available < env.Body.Fee {
		return transactions.Errorf(transactions.ErrorKindInsufficientBalance, "fee %d exceeds available balance %d of %s", env.Body.Fee, available, source)
	}

	return feeSignatures(env, networkID, ledger)
}

// feeSignatures verifies every fee signature in a single batch and checks
// that the distinct signers carry at least max(low threshold, 1) weight.
// Any signature that fails to verify rejects the envelope.
func feeSignatures(env transactions.InvocationEnvelope, networkID protocol.NetworkID, ledger LedgerForValidation) error {
	source := env.Body.Source
	low, err := ledger.LowThreshold(source)
	if err != nil {
		return fmt.Errorf("envelope: threshold lookup for %s: %w", source, err)
	}
	needed := uint64(low)
	if needed == 0 {
		needed = 1
	}

	digest := crypto.HashSignable(networkID, env.Body)
	bv := crypto.MakeBatchVerifier(len(env.FeeSignatures))
	for _, fs := range env.FeeSignatures {
		bv.EnqueueSignature(fs.PublicKey, digest, fs.Signature)
	}
	failed, err := bv.VerifyWithFeedback()
	if err != nil {
		for i := range failed {
			if failed[i] {
				return transactions.Errorf(transactions.ErrorKindBadAuth, "fee signature %d by %s: %w", i, env.FeeSignatures[i].PublicKey, errFeeSignatureInvalid)
			}
		}
		return transactions.NewInvocationError(transactions.ErrorKindBadAuth, err)
	}

	var ot basics.OverflowTracker
	var weight uint64
	seen := make(map[crypto.PublicKey]bool, len(env.FeeSignatures))
	for _, fs := range env.FeeSignatures {
		if seen[fs.PublicKey] {
			continue
		}
		seen[fs.PublicKey] = true
		w, err := ledger.SignerWeight(source, fs.PublicKey)
		if err != nil {
			return fmt.Errorf("envelope: signer lookup for %s: %w", source, err)
		}
		weight = ot.Add(weight, w)
	}
	if ot.Overflowed {
		return transactions.NewInvocationError(transactions.ErrorKindBadAuth, errFeeSignatureOverflow)
	}
	if weight < needed {
		return transactions.Errorf(transactions.ErrorKindBadAuth, "weight %d of %d signers, need %d: %w", weight, len(seen), needed, errFeeThresholdNotMet)
	}
	return nil
}
