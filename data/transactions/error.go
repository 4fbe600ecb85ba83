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

package transactions

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an invocation was rejected.
type ErrorKind int

const (
	// ErrorKindMalformed is a schema or encoding violation.
	ErrorKindMalformed ErrorKind = iota + 1
	// ErrorKindBadAuth is a failed or insufficient signature.
	ErrorKindBadAuth
	// ErrorKindSeqMismatch is an envelope sequence number that does not
	// follow the source account's.
	ErrorKindSeqMismatch
	// ErrorKindInsufficientBalance is a fee the source account cannot pay.
	ErrorKindInsufficientBalance
	// ErrorKindResourceLimitExceeded is a breach of an execution bound,
	// such as the maximum call depth.
	ErrorKindResourceLimitExceeded
	// ErrorKindCalleeFailure is a failure inside a called contract. It is
	// the only kind a calling contract may catch.
	ErrorKindCalleeFailure

	// ErrorKindNumValues is number of enum values
	ErrorKindNumValues
)

var errorKindNames = [...]string{
	ErrorKindMalformed:             "MALFORMED",
	ErrorKindBadAuth:               "BAD_AUTH",
	ErrorKindSeqMismatch:           "SEQ_MISMATCH",
	ErrorKindInsufficientBalance:   "INSUFFICIENT_BALANCE",
	ErrorKindResourceLimitExceeded: "RESOURCE_LIMIT_EXCEEDED",
	ErrorKindCalleeFailure:         "CALLEE_FAILURE",
}

func (k ErrorKind) String() string {
	if k > 0 && k < ErrorKindNumValues {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Catchable reports whether contract code may observe and handle an error
// of this kind. Every other kind rejects the whole transaction.
func (k ErrorKind) Catchable() bool {
	return k == ErrorKindCalleeFailure
}

// InvocationError is the error returned when an invocation is rejected.
// errors.Is matches any InvocationError of the same kind, so callers test
// with the sentinels below.
type InvocationError struct {
	Kind ErrorKind
	err  error
}

// Sentinels for errors.Is.
var (
	ErrMalformed             = &InvocationError{Kind: ErrorKindMalformed}
	ErrBadAuth               = &InvocationError{Kind: ErrorKindBadAuth}
	ErrSeqMismatch           = &InvocationError{Kind: ErrorKindSeqMismatch}
	ErrInsufficientBalance   = &InvocationError{Kind: ErrorKindInsufficientBalance}
	ErrResourceLimitExceeded = &InvocationError{Kind: ErrorKindResourceLimitExceeded}
	ErrCalleeFailure         = &InvocationError{Kind: ErrorKindCalleeFailure}
)

// NewInvocationError wraps err with a kind.
func NewInvocationError(kind ErrorKind, err error) *InvocationError {
	return &InvocationError{Kind: kind, err: err}
}

// Errorf builds an InvocationError from a format string. %w is honoured.
func Errorf(kind ErrorKind, format string, args ...interface{}) *InvocationError {
	return &InvocationError{Kind: kind, err: fmt.Errorf(format, args...)}
}

func (e *InvocationError) Error() string {
	if e.err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

// Unwrap provides access to the underlying error
func (e *InvocationError) Unwrap() error {
	return e.err
}

// Is matches any InvocationError of the same kind.
func (e *InvocationError) Is(target error) bool {
	t, ok := target.(*InvocationError)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the outermost InvocationError in err's chain,
// or zero if there is none.
func KindOf(err error) ErrorKind {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return 0
}
