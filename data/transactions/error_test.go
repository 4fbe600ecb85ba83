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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/test/partitiontest"
)

func TestErrorKindNames(t *testing.T) {
	partitiontest.PartitionTest(t)

	for k := ErrorKindMalformed; k < ErrorKindNumValues; k++ {
		require.NotEmpty(t, k.String())
		require.NotContains(t, k.String(), "ErrorKind(")
		require.Equal(t, k == ErrorKindCalleeFailure, k.Catchable())
	}
	require.Equal(t, "BAD_AUTH", ErrorKindBadAuth.String())
	require.Equal(t, "ErrorKind(0)", ErrorKind(0).String())
	require.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
}

func TestInvocationErrorMatching(t *testing.T) {
	partitiontest.PartitionTest(t)

	cause := errors.New("signature mismatch")
	err := NewInvocationError(ErrorKindBadAuth, cause)
	require.ErrorIs(t, err, ErrBadAuth)
	require.NotErrorIs(t, err, ErrMalformed)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "BAD_AUTH: signature mismatch", err.Error())
	require.Equal(t, "SEQ_MISMATCH", ErrSeqMismatch.Error())

	wrapped := fmt.Errorf("transaction abc: %w", err)
	require.ErrorIs(t, wrapped, ErrBadAuth)
	require.Equal(t, ErrorKindBadAuth, KindOf(wrapped))
	require.Equal(t, ErrorKind(0), KindOf(cause))
	require.Equal(t, ErrorKind(0), KindOf(nil))

	var ie *InvocationError
	require.ErrorAs(t, wrapped, &ie)
	require.Equal(t, ErrorKindBadAuth, ie.Kind)

	limit := Errorf(ErrorKindResourceLimitExceeded, "depth %d: %w", 9, cause)
	require.ErrorIs(t, limit, ErrResourceLimitExceeded)
	require.ErrorIs(t, limit, cause)
}
