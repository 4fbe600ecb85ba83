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
	"fmt"

	"github.com/google/uuid"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/data/transactions/logic"
	"github.com/algorand/go-invoker/data/transactions/verify"
	"github.com/algorand/go-invoker/logging"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/util/metrics"
)

var invocationsApplied = metrics.MakeCounter(metrics.LedgerInvocationsApplied)
var invocationsRejected = metrics.NewTagCounter(metrics.LedgerInvocationsRejected, "kind")

// ApplyResult describes an invocation that was applied.
type ApplyResult struct {
	TxID    transactions.Txid
	Invoker basics.Address
	Return  basics.Value
}

// Evaluator applies invocation envelopes to an account store. Each
// ApplyInvocation runs on its own invoker stack, so an Evaluator may be
// used from several goroutines if its store and engine allow it.
type Evaluator struct {
	store     AccountStore
	engine    logic.Engine
	networkID protocol.NetworkID
	proto     config.ConsensusParams
	log       logging.Logger
}

// MakeEvaluator creates an evaluator for one network and protocol version.
func MakeEvaluator(store AccountStore, engine logic.Engine, networkID protocol.NetworkID, proto config.ConsensusParams, log logging.Logger) (*Evaluator, error) {
	if err := proto.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Base()
	}
	return &Evaluator{store: store, engine: engine, networkID: networkID, proto: proto, log: log}, nil
}

// ApplyInvocation validates env, authenticates its invoker, runs the
// target contract and, only if all of that succeeds, commits the sequence
// number and fee. A rejected invocation leaves the store unchanged.
//
// Rejections are *transactions.InvocationError values; errors from the
// store or ctx are returned as they are.
func (ev *Evaluator) ApplyInvocation(ctx context.Context, env transactions.InvocationEnvelope) (ApplyResult, error) {
	res := ApplyResult{TxID: env.ID(ev.networkID)}
	log := ev.log.WithFields(logging.Fields{
		"execution": uuid.NewString(),
		"txid":      res.TxID.String(),
		"source":    env.Body.Source.String(),
		"seq":       env.Body.SeqNum,
	})

	err := ev.apply(ctx, env, &res, log)
	if err != nil {
		kind := "STORE"
		if k := transactions.KindOf(err); k != 0 {
			kind = k.String()
		}
		invocationsRejected.Add(kind, 1)
		log.Infof("invocation rejected: %v", err)
		return ApplyResult{TxID: res.TxID}, err
	}
	invocationsApplied.Inc()
	log.With("invoker", res.Invoker.String()).Debugf("invocation applied, returned %s", res.Return)
	return res, nil
}

func (ev *Evaluator) apply(ctx context.Context, env transactions.InvocationEnvelope, res *ApplyResult, log logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := verify.Envelope(env, ev.networkID, ev.proto, ev.store); err != nil {
		return err
	}
	if err := verify.InvokerErr(env, ev.networkID); err != nil {
		return err
	}
	res.Invoker = basics.PublicKeyIdentity(env.InvokerSignature.PublicKey)

	contract, err := logic.ResolveTarget(ev.networkID, env.Body.Target)
	if err != nil {
		return err
	}

	stack := logic.NewInvokerStack(ev.proto, log)
	host := logic.NewHost(stack, ev.engine, ev.networkID, ev.proto)
	err = stack.Execute(res.Invoker, contract, func() error {
		ret, err := ev.engine.Invoke(host, contract, env.Body.Symbol, env.Body.Parameters)
		if err != nil {
			return err
		}
		res.Return = ret
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction %v: %w", res.TxID, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return ev.store.Commit(ctx, env.Body.Source, env.Body.SeqNum, env.Body.Fee)
}
