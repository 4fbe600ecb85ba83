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

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/data/transactions/logic"
	"github.com/algorand/go-invoker/ledger"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/test/partitiontest"
)

var cliNetwork = crypto.NetworkIDFromPassphrase("cli test network")

func cliKey(b byte) *crypto.SignatureSecrets {
	var seed crypto.Seed
	seed[0] = b
	return crypto.GenerateSignatureSecrets(seed)
}

func cliProto(t *testing.T) config.ConsensusParams {
	proto, err := config.Consensus.Params(protocol.ConsensusCurrentVersion)
	require.NoError(t, err)
	return proto
}

func TestBuildBody(t *testing.T) {
	partitiontest.PartitionTest(t)

	proto := cliProto(t)
	payer := basics.PublicKeyIdentity(cliKey(1).SignatureVerifier)
	receiver := basics.PublicKeyIdentity(cliKey(2).SignatureVerifier)
	contract := basics.ContractIdentity(basics.ContractID{7})

	body, err := buildBody(invocationRequest{
		seq:      6,
		contract: contract.String(),
		symbol:   "transfer",
		args:     []string{"addr:" + receiver.String(), "u64:100"},
	}, payer, proto)
	require.NoError(t, err)
	require.Equal(t, payer, body.Source)
	require.Equal(t, proto.MinFee, body.Fee)
	require.Equal(t, transactions.ByReference(basics.ContractID{7}), body.Target)
	require.Equal(t, []basics.Value{basics.AddressValue(receiver), basics.U64Value(100)}, body.Parameters)

	body, err = buildBody(invocationRequest{source: receiver.String(), seq: 1, fee: 500, code: []byte{1, 2}, symbol: "init"}, payer, proto)
	require.NoError(t, err)
	require.Equal(t, receiver, body.Source)
	require.Equal(t, uint64(500), body.Fee)
	require.Equal(t, transactions.ByCode([]byte{1, 2}), body.Target)

	bad := []invocationRequest{
		{seq: 1, symbol: "f"},
		{seq: 1, symbol: "f", contract: contract.String(), code: []byte{1}},
		{seq: 1, symbol: "f", contract: receiver.String()},
		{seq: 1, symbol: "f", contract: "Cnotanaddress"},
		{seq: 1, symbol: "f", contract: contract.String(), args: []string{"u64:x"}},
		{seq: 1, symbol: "bad-symbol", contract: contract.String()},
		{seq: 1, symbol: "f", contract: contract.String(), source: "Gnope"},
	}
	for i, req := range bad {
		_, err := buildBody(req, payer, proto)
		require.Error(t, err, "%d", i)
	}
}

func TestCheckInvocation(t *testing.T) {
	partitiontest.PartitionTest(t)

	proto := cliProto(t)
	payerKey, invokerKey := cliKey(1), cliKey(2)
	payer := basics.PublicKeyIdentity(payerKey.SignatureVerifier)

	body, err := buildBody(invocationRequest{seq: 6, contract: basics.ContractIdentity(basics.ContractID{7}).String(), symbol: "f"}, payer, proto)
	require.NoError(t, err)
	data := body.Sign(cliNetwork, invokerKey, payerKey).Encode()

	env, err := checkInvocation(data, cliNetwork, proto, nil)
	require.NoError(t, err)
	require.Equal(t, body, env.Body)

	// another network
	_, err = checkInvocation(data, crypto.NetworkIDFromPassphrase("other"), proto, nil)
	require.ErrorIs(t, err, transactions.ErrBadAuth)

	// garbage
	_, err = checkInvocation([]byte{0xc1, 0x00}, cliNetwork, proto, nil)
	require.ErrorIs(t, err, transactions.ErrMalformed)

	// with an account store the fee preconditions are checked too
	store := ledger.NewMemoryStore()
	_, err = checkInvocation(data, cliNetwork, proto, store)
	require.ErrorIs(t, err, transactions.ErrSeqMismatch)

	require.NoError(t, store.Put(context.Background(), basics.BalanceRecord{
		Addr:        payer,
		AccountData: basics.AccountData{SeqNum: 5, Balance: 1000, MasterWeight: 1},
	}))
	_, err = checkInvocation(data, cliNetwork, proto, store)
	require.NoError(t, err)
}

func TestSignedInvocationApplies(t *testing.T) {
	partitiontest.PartitionTest(t)

	proto := cliProto(t)
	payerKey, invokerKey := cliKey(1), cliKey(2)
	payer := basics.PublicKeyIdentity(payerKey.SignatureVerifier)
	code := []byte("cli contract")

	reg := logic.NewRegistry()
	reg.InstallCode(cliNetwork, code, logic.Contract{
		"whoami": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			inv, err := host.GetInvoker()
			return basics.AddressValue(inv), err
		},
	})
	store := ledger.NewMemoryStore(basics.BalanceRecord{
		Addr:        payer,
		AccountData: basics.AccountData{SeqNum: 0, Balance: 1000, MasterWeight: 1},
	})
	ev, err := ledger.MakeEvaluator(store, reg, cliNetwork, proto, nil)
	require.NoError(t, err)

	body, err := buildBody(invocationRequest{seq: 1, code: code, symbol: "whoami"}, payer, proto)
	require.NoError(t, err)
	env, err := checkInvocation(body.Sign(cliNetwork, invokerKey, payerKey).Encode(), cliNetwork, proto, store)
	require.NoError(t, err)

	res, err := ev.ApplyInvocation(context.Background(), env)
	require.NoError(t, err)
	require.Equal(t, basics.AddressValue(basics.PublicKeyIdentity(invokerKey.SignatureVerifier)), res.Return)
}
