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

package logic

import (
	"fmt"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/data/transactions/verify"
	"github.com/algorand/go-invoker/protocol"
)

// Engine runs contract code. Contract code reaches the invoker stack only
// through the Host it is handed.
type Engine interface {
	Invoke(host *Host, contract basics.ContractID, symbol string, params []basics.Value) (basics.Value, error)
}

// Host is the set of host functions available to executing contract code
// during one top-level execution.
type Host struct {
	stack     *InvokerStack
	engine    Engine
	networkID protocol.NetworkID
	proto     config.ConsensusParams
}

// NewHost binds an engine to a stack for one execution.
func NewHost(stack *InvokerStack, engine Engine, networkID protocol.NetworkID, proto config.ConsensusParams) *Host {
	return &Host{stack: stack, engine: engine, networkID: networkID, proto: proto}
}

// Stack exposes the invoker stack for inspection.
func (h *Host) Stack() *InvokerStack {
	return h.stack
}

// NetworkID is the network the execution runs on.
func (h *Host) NetworkID() protocol.NetworkID {
	return h.networkID
}

// GetInvoker returns the identity that authorized the executing call: the
// signing account for the root invocation, the calling contract for a
// cross-contract call.
func (h *Host) GetInvoker() (basics.Address, error) {
	return h.stack.Invoker()
}

// CurrentContract returns the contract that is executing.
func (h *Host) CurrentContract() (basics.ContractID, error) {
	top, ok := h.stack.Current()
	if !ok {
		return basics.ContractID{}, ErrNoInvoker
	}
	return top.Callee, nil
}

// VerifyMessage reports whether ks signs message on this network.
func (h *Host) VerifyMessage(message []byte, ks crypto.KeyedSignature) bool {
	return verify.Message(h.networkID, message, ks)
}

// Call invokes symbol on contract from the executing contract. A
// CALLEE_FAILURE may be handled by the caller; any other error has aborted
// the execution and will be returned by every enclosing call.
func (h *Host) Call(contract basics.ContractID, symbol string, params []basics.Value) (basics.Value, error) {
	if err := h.stack.Aborted(); err != nil {
		return basics.Value{}, err
	}
	if err := h.checkCall(symbol, params); err != nil {
		return basics.Value{}, err
	}
	var ret basics.Value
	err := h.stack.Call(contract, func() error {
		v, err := h.engine.Invoke(h, contract, symbol, params)
		if err != nil {
			return err
		}
		ret = v
		return nil
	})
	if err != nil {
		return basics.Value{}, err
	}
	return ret, nil
}

// checkCall applies the envelope's schema bounds to a nested call. A bad
// symbol is the caller's failure; exceeding a size bound aborts.
func (h *Host) checkCall(symbol string, params []basics.Value) error {
	if err := basics.ValidateSymbol(symbol, h.proto.MaxSymbolLen); err != nil {
		return transactions.NewInvocationError(transactions.ErrorKindCalleeFailure, err)
	}
	if len(params) > h.proto.MaxInvocationParams {
		return h.stack.Abort(transactions.Errorf(transactions.ErrorKindResourceLimitExceeded,
			"call has %d parameters, limit %d", len(params), h.proto.MaxInvocationParams))
	}
	for i, p := range params {
		if err := p.Validate(h.proto.MaxValueBytes, h.proto.MaxSymbolLen); err != nil {
			return h.stack.Abort(transactions.NewInvocationError(transactions.ErrorKindResourceLimitExceeded,
				fmt.Errorf("call parameter %d: %w", i, err)))
		}
	}
	return nil
}
