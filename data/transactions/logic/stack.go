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
	"runtime"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/logging"
)

var (
	// ErrNoInvoker is returned when the invoker is asked for outside of
	// any call frame. It indicates a bug in the caller, never a default
	// identity.
	ErrNoInvoker = errors.New("no invoker: call stack is empty")
	// ErrReentrancy is wrapped by the CALLEE_FAILURE returned for a call the
	// reentrancy policy refuses.
	ErrReentrancy = errors.New("reentrant call refused")
	// ErrDepthExceeded is wrapped by the RESOURCE_LIMIT_EXCEEDED abort for a
	// call beyond the maximum depth.
	ErrDepthExceeded = errors.New("call depth exceeded")

	errStackInUse     = errors.New("invoker stack already holds a root frame")
	errStackUnwinding = errors.New("invoker stack is unwinding")
)

// StackState is the lifecycle state of an InvokerStack.
type StackState int

const (
	// StackEmpty has no frames. It is the initial and final state.
	StackEmpty StackState = iota
	// StackRooted holds only the root frame.
	StackRooted
	// StackNested holds the root frame and at least one cross-contract call.
	StackNested
	// StackUnwinding is being torn down.
	StackUnwinding
)

func (s StackState) String() string {
	switch s {
	case StackEmpty:
		return "empty"
	case StackRooted:
		return "rooted"
	case StackNested:
		return "nested"
	case StackUnwinding:
		return "unwinding"
	}
	return fmt.Sprintf("StackState(%d)", int(s))
}

// CallFrame records who invoked the contract that is executing.
type CallFrame struct {
	Invoker basics.Address
	Callee  basics.ContractID
}

// PanicError wraps a recover() catching a panic() in contract code
type PanicError struct {
	PanicValue interface{}
	StackTrace string
}

func (pe PanicError) Error() string {
	return fmt.Sprintf("panic in contract: %v\n%s", pe.PanicValue, pe.StackTrace)
}

// InvokerStack tracks the chain of invokers for one top-level execution.
// The root frame carries the account that signed the envelope; every
// cross-contract call pushes a frame whose invoker is the calling contract.
//
// An InvokerStack belongs to a single execution and is not safe for
// concurrent use.
type InvokerStack struct {
	frames    []CallFrame
	maxDepth  int
	policy    config.ReentrancyPolicy
	unwinding bool

	// aborted is set by a non-recoverable failure. Once set, every
	// enclosing Call returns it no matter what contract code does with
	// the error it was handed.
	aborted error

	log logging.Logger
}

// NewInvokerStack creates an empty stack bounded by the protocol's call
// depth and governed by its reentrancy policy.
func NewInvokerStack(proto config.ConsensusParams, log logging.Logger) *InvokerStack {
	if log == nil {
		log = logging.Base()
	}
	return &InvokerStack{
		frames:   make([]CallFrame, 0, proto.MaxCallDepth),
		maxDepth: proto.MaxCallDepth,
		policy:   proto.Reentrancy,
		log:      log,
	}
}

// State reports the lifecycle state.
func (s *InvokerStack) State() StackState {
	switch {
	case s.unwinding:
		return StackUnwinding
	case len(s.frames) == 0:
		return StackEmpty
	case len(s.frames) == 1:
		return StackRooted
	default:
		return StackNested
	}
}

// Depth is the number of frames currently pushed.
func (s *InvokerStack) Depth() int {
	return len(s.frames)
}

// Current returns the executing frame.
func (s *InvokerStack) Current() (CallFrame, bool) {
	if len(s.frames) == 0 {
		return CallFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Frames returns a copy of the frames, root first.
func (s *InvokerStack) Frames() []CallFrame {
	return append([]CallFrame(nil), s.frames...)
}

// Aborted returns the error that aborted the execution, if any.
func (s *InvokerStack) Aborted() error {
	return s.aborted
}

// Invoker returns the invoker of the executing frame.
func (s *InvokerStack) Invoker() (basics.Address, error) {
	top, ok := s.Current()
	if !ok {
		return basics.Address{}, ErrNoInvoker
	}
	return top.Invoker, nil
}

// PushRoot creates the root frame. It is only legal on an empty stack.
func (s *InvokerStack) PushRoot(invoker basics.Address, callee basics.ContractID) error {
	switch s.State() {
	case StackEmpty:
	case StackUnwinding:
		return errStackUnwinding
	default:
		return errStackInUse
	}
	if err := invoker.Validate(); err != nil {
		return fmt.Errorf("root invoker: %w", err)
	}
	if s.maxDepth < 1 {
		return transactions.Errorf(transactions.ErrorKindResourceLimitExceeded, "root frame: %w", ErrDepthExceeded)
	}
	s.frames = append(s.frames, CallFrame{Invoker: invoker, Callee: callee})
	return nil
}

// Call runs fn as a cross-contract call from the executing contract to
// callee. While fn runs, the invoker is the calling contract. The frame is
// popped before Call returns, whether fn returns normally, returns an
// error or panics.
//
// Errors from fn that carry no kind, and panics, are reported as
// CALLEE_FAILURE. If the execution was aborted, by this call or a deeper
// one, the abort error is returned instead.
func (s *InvokerStack) Call(callee basics.ContractID, fn func() error) (err error) {
	if s.aborted != nil {
		return s.aborted
	}
	if s.unwinding {
		return errStackUnwinding
	}
	caller, ok := s.Current()
	if !ok {
		return fmt.Errorf("call to %s: %w", callee, ErrNoInvoker)
	}
	if err := s.checkReentrancy(caller.Callee, callee); err != nil {
		s.log.With("caller", caller.Callee.String()).With("callee", callee.String()).Debugf("refused call: %v", err)
		return err
	}
	if len(s.frames) >= s.maxDepth {
		return s.Abort(transactions.Errorf(transactions.ErrorKindResourceLimitExceeded, "call to %s at depth %d, limit %d: %w", callee, len(s.frames), s.maxDepth, ErrDepthExceeded))
	}

	depth := len(s.frames)
	s.frames = append(s.frames, CallFrame{Invoker: basics.ContractIdentity(caller.Callee), Callee: callee})
	defer func() {
		if x := recover(); x != nil {
			buf := make([]byte, 16*1024)
			stlen := runtime.Stack(buf, false)
			err = transactions.NewInvocationError(transactions.ErrorKindCalleeFailure, PanicError{x, string(buf[:stlen])})
			s.log.With("callee", callee.String()).Debugf("contract trapped: %v", x)
		}
		s.frames = s.frames[:depth]
		if s.aborted != nil {
			err = s.aborted
		}
	}()

	err = fn()
	if err != nil && transactions.KindOf(err) == 0 {
		err = transactions.NewInvocationError(transactions.ErrorKindCalleeFailure, fmt.Errorf("call to %s: %w", callee, err))
	}
	return err
}

func (s *InvokerStack) checkReentrancy(caller, callee basics.ContractID) error {
	switch s.policy {
	case config.ReentrancyAllow:
		return nil
	case config.ReentrancyDenySelf:
		if caller == callee {
			return transactions.Errorf(transactions.ErrorKindCalleeFailure, "attempt to self-call %s: %w", callee, ErrReentrancy)
		}
		return nil
	default:
		if caller == callee {
			return transactions.Errorf(transactions.ErrorKindCalleeFailure, "attempt to self-call %s: %w", callee, ErrReentrancy)
		}
		for _, f := range s.frames {
			if f.Callee == callee {
				return transactions.Errorf(transactions.ErrorKindCalleeFailure, "attempt to re-enter %s: %w", callee, ErrReentrancy)
			}
		}
		return nil
	}
}

// Abort marks the execution as failed with err, which must not be a
// CALLEE_FAILURE. The first abort wins. Abort returns the abort error.
func (s *InvokerStack) Abort(err error) error {
	if s.aborted == nil {
		s.aborted = err
		s.log.With("depth", len(s.frames)).Debugf("execution aborted: %v", err)
	}
	return s.aborted
}

// Teardown pops every remaining frame and returns the stack to Empty,
// clearing any abort. It is idempotent.
func (s *InvokerStack) Teardown() {
	s.unwinding = true
	for len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	s.aborted = nil
	s.unwinding = false
}

// Execute runs fn as the root invocation of callee on behalf of invoker
// and tears the stack down afterwards, whatever happens. Errors and panics
// are classified as in Call, and an abort always takes precedence.
func (s *InvokerStack) Execute(invoker basics.Address, callee basics.ContractID, fn func() error) (err error) {
	if err := s.PushRoot(invoker, callee); err != nil {
		return err
	}
	defer func() {
		if x := recover(); x != nil {
			buf := make([]byte, 16*1024)
			stlen := runtime.Stack(buf, false)
			err = transactions.NewInvocationError(transactions.ErrorKindCalleeFailure, PanicError{x, string(buf[:stlen])})
		}
		if s.aborted != nil {
			err = s.aborted
		}
		s.Teardown()
	}()

	err = fn()
	if err != nil && transactions.KindOf(err) == 0 {
		err = transactions.NewInvocationError(transactions.ErrorKindCalleeFailure, fmt.Errorf("invocation of %s: %w", callee, err))
	}
	return err
}
