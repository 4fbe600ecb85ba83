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
	"errors"
	"fmt"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/protocol"
)

var (
	// ErrUnknownContract is wrapped by the CALLEE_FAILURE for a call to a
	// contract that is not registered.
	ErrUnknownContract = errors.New("unknown contract")
	// ErrUnknownFunction is wrapped by the CALLEE_FAILURE for a call to a
	// symbol the contract does not export.
	ErrUnknownFunction = errors.New("unknown function")
)

// ContractFunc is one exported contract function.
type ContractFunc func(host *Host, params []basics.Value) (basics.Value, error)

// Contract maps exported symbols to functions.
type Contract map[string]ContractFunc

// codeBytes is the signable form of installed bytecode.
type codeBytes []byte

func (c codeBytes) ToBeSigned() (protocol.EnvelopeType, []byte) {
	return protocol.EnvelopeTypeContractID, []byte(c)
}

// ContractIDFromCode derives the ID a contract installed from bytecode
// gets on a network.
func ContractIDFromCode(networkID protocol.NetworkID, bytecode []byte) basics.ContractID {
	return basics.ContractID(crypto.HashSignable(networkID, codeBytes(bytecode)))
}

// ResolveTarget returns the contract an invocation target names.
func ResolveTarget(networkID protocol.NetworkID, target transactions.InvokeTarget) (basics.ContractID, error) {
	switch target.Type {
	case transactions.InvokeByReference:
		return target.ContractID, nil
	case transactions.InvokeByCode:
		return ContractIDFromCode(networkID, target.Bytecode), nil
	}
	return basics.ContractID{}, transactions.Errorf(transactions.ErrorKindMalformed, "unknown invoke target %s", target.Type)
}

// Registry is an Engine backed by Go functions. It is safe for concurrent
// use; executions only read it.
type Registry struct {
	mu        deadlock.RWMutex
	contracts map[basics.ContractID]Contract
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[basics.ContractID]Contract)}
}

// Register binds a contract to id, replacing any previous binding.
func (r *Registry) Register(id basics.ContractID, c Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[id] = c
}

// InstallCode binds a contract to the ID derived from bytecode and
// returns that ID.
func (r *Registry) InstallCode(networkID protocol.NetworkID, bytecode []byte, c Contract) basics.ContractID {
	id := ContractIDFromCode(networkID, bytecode)
	r.Register(id, c)
	return id
}

// Lookup returns the function contract exports as symbol.
func (r *Registry) Lookup(contract basics.ContractID, symbol string) (ContractFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[contract]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownContract, contract)
	}
	fn, ok := c[symbol]
	if !ok {
		return nil, fmt.Errorf("%w %s on %s", ErrUnknownFunction, symbol, contract)
	}
	return fn, nil
}

// Invoke implements Engine.
func (r *Registry) Invoke(host *Host, contract basics.ContractID, symbol string, params []basics.Value) (basics.Value, error) {
	fn, err := r.Lookup(contract, symbol)
	if err != nil {
		return basics.Value{}, transactions.NewInvocationError(transactions.ErrorKindCalleeFailure, err)
	}
	return fn(host, params)
}
