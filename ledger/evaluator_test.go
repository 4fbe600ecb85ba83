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

package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/data/transactions/logic"
	"github.com/algorand/go-invoker/logging"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/test/partitiontest"
)

var testNetwork = crypto.NetworkIDFromPassphrase("ledger test network")

// harness wires an evaluator to a store seeded with account A at seq 5,
// and to contracts 7 and 9 where 7's transfer calls 9's onReceive.
type harness struct {
	store   AccountStore
	reg     *logic.Registry
	ev      *Evaluator
	source  *crypto.SignatureSecrets
	invoker *crypto.SignatureSecrets
	addr    basics.Address
	body    transactions.InvocationBody

	invokers map[string]basics.Address
	calls    int
}

func makeHarness(t *testing.T, store AccountStore) *harness {
	h := &harness{store: store, reg: logic.NewRegistry(), invokers: make(map[string]basics.Address)}
	h.source, h.addr = testAccount(t, "A")
	h.invoker, _ = testAccount(t, "K")
	_, receiver := testAccount(t, "B")

	require.NoError(t, store.Put(context.Background(), basics.BalanceRecord{
		Addr:        h.addr,
		AccountData: basics.AccountData{SeqNum: 5, Balance: 1000, MinBalance: 100, MasterWeight: 1},
	}))

	h.reg.Register(basics.ContractID{7}, logic.Contract{
		"transfer": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			h.calls++
			inv, err := host.GetInvoker()
			if err != nil {
				return basics.Value{}, err
			}
			h.invokers["transfer"] = inv
			return host.Call(basics.ContractID{9}, "onReceive", params)
		},
	})
	h.reg.Register(basics.ContractID{9}, logic.Contract{
		"onReceive": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			inv, err := host.GetInvoker()
			if err != nil {
				return basics.Value{}, err
			}
			h.invokers["onReceive"] = inv
			return params[1], nil
		},
	})

	proto, err := config.Consensus.Params(protocol.ConsensusCurrentVersion)
	require.NoError(t, err)
	h.ev, err = MakeEvaluator(store, h.reg, testNetwork, proto, logging.TestingLog(t))
	require.NoError(t, err)

	h.body = transactions.InvocationBody{
		Source:     h.addr,
		SeqNum:     6,
		Fee:        100,
		Target:     transactions.ByReference(basics.ContractID{7}),
		Symbol:     "transfer",
		Parameters: []basics.Value{basics.AddressValue(receiver), basics.U64Value(100)},
	}
	return h
}

func (h *harness) sign() transactions.InvocationEnvelope {
	return h.body.Sign(testNetwork, h.invoker, h.source)
}

func (h *harness) requireAccount(t *testing.T, seq, balance uint64) {
	t.Helper()
	ad, ok, err := h.store.Lookup(h.addr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, seq, ad.SeqNum)
	require.Equal(t, balance, ad.Balance)
}

func TestApplyInvocation(t *testing.T) {
	partitiontest.PartitionTest(t)

	forEachStore(t, func(t *testing.T, store AccountStore) {
		h := makeHarness(t, store)
		env := h.sign()
		before := invocationsApplied.GetUint64Value()

		res, err := h.ev.ApplyInvocation(context.Background(), env)
		require.NoError(t, err)
		k := basics.PublicKeyIdentity(h.invoker.SignatureVerifier)
		require.Equal(t, env.ID(testNetwork), res.TxID)
		require.Equal(t, k, res.Invoker)
		require.Equal(t, basics.U64Value(100), res.Return)
		require.Equal(t, k, h.invokers["transfer"])
		require.Equal(t, basics.ContractIdentity(basics.ContractID{7}), h.invokers["onReceive"])
		h.requireAccount(t, 6, 900)
		require.Greater(t, invocationsApplied.GetUint64Value(), before)

		// a replay no longer matches the sequence number
		_, err = h.ev.ApplyInvocation(context.Background(), env)
		require.ErrorIs(t, err, transactions.ErrSeqMismatch)
		h.requireAccount(t, 6, 900)
		require.Equal(t, 1, h.calls)
	})
}

func TestApplyInvocationBadInvokerSignature(t *testing.T) {
	partitiontest.PartitionTest(t)

	forEachStore(t, func(t *testing.T, store AccountStore) {
		h := makeHarness(t, store)
		env := h.sign()
		env.InvokerSignature.Signature[3] ^= 0x10

		before := invocationsRejected.GetValue("BAD_AUTH")
		_, err := h.ev.ApplyInvocation(context.Background(), env)
		require.ErrorIs(t, err, transactions.ErrBadAuth)
		h.requireAccount(t, 5, 1000)
		require.Zero(t, h.calls)
		require.Equal(t, before+1, invocationsRejected.GetValue("BAD_AUTH"))
	})
}

func TestApplyInvocationEnvelopeRejected(t *testing.T) {
	partitiontest.PartitionTest(t)

	h := makeHarness(t, NewMemoryStore())
	h.body.Fee = 901
	_, err := h.ev.ApplyInvocation(context.Background(), h.sign())
	require.ErrorIs(t, err, transactions.ErrInsufficientBalance)

	h.body.Fee = 100
	h.body.Symbol = "no-dashes"
	_, err = h.ev.ApplyInvocation(context.Background(), h.sign())
	require.ErrorIs(t, err, transactions.ErrMalformed)

	h.requireAccount(t, 5, 1000)
	require.Zero(t, h.calls)
}

func TestApplyInvocationDepthExceeded(t *testing.T) {
	partitiontest.PartitionTest(t)

	forEachStore(t, func(t *testing.T, store AccountStore) {
		h := makeHarness(t, store)
		for i := byte(20); i < 40; i++ {
			next := basics.ContractID{i + 1}
			h.reg.Register(basics.ContractID{i}, logic.Contract{
				"down": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
					// swallow the failure; the abort still rejects the transaction
					_, _ = host.Call(next, "down", nil)
					return basics.Void(), nil
				},
			})
		}
		h.body.Target = transactions.ByReference(basics.ContractID{20})
		h.body.Symbol = "down"
		h.body.Parameters = nil

		_, err := h.ev.ApplyInvocation(context.Background(), h.sign())
		require.ErrorIs(t, err, transactions.ErrResourceLimitExceeded)
		require.ErrorIs(t, err, logic.ErrDepthExceeded)
		h.requireAccount(t, 5, 1000)
	})
}

func TestApplyInvocationCalleeFailure(t *testing.T) {
	partitiontest.PartitionTest(t)

	h := makeHarness(t, NewMemoryStore())
	h.reg.Register(basics.ContractID{9}, logic.Contract{
		"onReceive": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			return basics.Value{}, errors.New("rejected transfer")
		},
	})

	// escaping the root rejects the invocation
	_, err := h.ev.ApplyInvocation(context.Background(), h.sign())
	require.ErrorIs(t, err, transactions.ErrCalleeFailure)
	h.requireAccount(t, 5, 1000)

	// caught by the caller it does not
	h.reg.Register(basics.ContractID{7}, logic.Contract{
		"transfer": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			_, err := host.Call(basics.ContractID{9}, "onReceive", params)
			if !errors.Is(err, transactions.ErrCalleeFailure) {
				return basics.Value{}, err
			}
			return basics.SymbolValue("refused"), nil
		},
	})
	res, err := h.ev.ApplyInvocation(context.Background(), h.sign())
	require.NoError(t, err)
	require.Equal(t, basics.SymbolValue("refused"), res.Return)
	h.requireAccount(t, 6, 900)
}

func TestApplyInvocationByCode(t *testing.T) {
	partitiontest.PartitionTest(t)

	h := makeHarness(t, NewMemoryStore())
	code := []byte("contract bytecode")
	h.reg.InstallCode(testNetwork, code, logic.Contract{
		"whoami": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			inv, err := host.GetInvoker()
			if err != nil {
				return basics.Value{}, err
			}
			return basics.AddressValue(inv), nil
		},
	})
	h.body.Target = transactions.ByCode(code)
	h.body.Symbol = "whoami"
	h.body.Parameters = nil

	res, err := h.ev.ApplyInvocation(context.Background(), h.sign())
	require.NoError(t, err)
	require.Equal(t, basics.AddressValue(basics.PublicKeyIdentity(h.invoker.SignatureVerifier)), res.Return)

	// the same code on another network is a different contract
	other, err := MakeEvaluator(h.store, h.reg, crypto.NetworkIDFromPassphrase("elsewhere"), h.ev.proto, logging.TestingLog(t))
	require.NoError(t, err)
	h.body.SeqNum = 7
	env := h.body.Sign(other.networkID, h.invoker, h.source)
	_, err = other.ApplyInvocation(context.Background(), env)
	require.ErrorIs(t, err, transactions.ErrCalleeFailure)
	require.ErrorIs(t, err, logic.ErrUnknownContract)
	h.requireAccount(t, 6, 900)
}

func TestApplyInvocationCanceled(t *testing.T) {
	partitiontest.PartitionTest(t)

	h := makeHarness(t, NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.ev.ApplyInvocation(ctx, h.sign())
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, transactions.KindOf(err))
	h.requireAccount(t, 5, 1000)

	// canceled while the contract runs
	ctx, cancel = context.WithCancel(context.Background())
	h.reg.Register(basics.ContractID{7}, logic.Contract{
		"transfer": func(host *logic.Host, params []basics.Value) (basics.Value, error) {
			cancel()
			return basics.Void(), nil
		},
	})
	_, err = h.ev.ApplyInvocation(ctx, h.sign())
	require.ErrorIs(t, err, context.Canceled)
	h.requireAccount(t, 5, 1000)
}

func TestMakeEvaluatorValidatesParams(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, err := MakeEvaluator(NewMemoryStore(), logic.NewRegistry(), testNetwork, config.ConsensusParams{}, nil)
	require.Error(t, err)
}
