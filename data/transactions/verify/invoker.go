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
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/util/metrics"
)

var invokerGoodTotal = metrics.MakeCounter(metrics.InvokerSignatureOK)
var invokerRejTotal = metrics.MakeCounter(metrics.InvokerSignatureRejected)

// Invoker reports whether the envelope's invoker signature authorizes its
// body on the given network.
func Invoker(env transactions.InvocationEnvelope, networkID protocol.NetworkID) bool {
	return InvokerErr(env, networkID) == nil
}

// InvokerErr is Invoker returning the reason for a rejection as a
// BAD_AUTH error.
func InvokerErr(env transactions.InvocationEnvelope, networkID protocol.NetworkID) error {
	err := env.InvokerSignature.Verify(networkID, env.Body.InvokerPayload(networkID))
	if err != nil {
		invokerRejTotal.Inc()
		return transactions.Errorf(transactions.ErrorKindBadAuth, "invoker signature by %s: %w", env.InvokerSignature.PublicKey, err)
	}
	invokerGoodTotal.Inc()
	return nil
}

// InvokerBatch checks the invoker signatures of many envelopes in one
// ed25519 batch. The result holds one entry per envelope, true when its
// signature verified.
func InvokerBatch(envs []transactions.InvocationEnvelope, networkID protocol.NetworkID) []bool {
	bv := crypto.MakeBatchVerifier(len(envs))
	for _, env := range envs {
		d := crypto.HashSignable(networkID, env.Body.InvokerPayload(networkID))
		bv.EnqueueSignature(env.InvokerSignature.PublicKey, d, env.InvokerSignature.Signature)
	}
	ok := make([]bool, len(envs))
	failed, err := bv.VerifyWithFeedback()
	for i := range ok {
		ok[i] = err == nil || !failed[i]
		if ok[i] {
			invokerGoodTotal.Inc()
		} else {
			invokerRejTotal.Inc()
		}
	}
	return ok
}
