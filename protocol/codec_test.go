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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/test/partitiontest"
)

func TestEnvelopeTypeBytes(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, []byte{0, 0, 0, 8}, EnvelopeTypeInvoke.AppendBytes(nil))
	require.Equal(t, []byte{0xff, 0, 0, 0, 9}, EnvelopeTypeMessage.AppendBytes([]byte{0xff}))
	require.Equal(t, []byte{1, 2, 3, 4}, EnvelopeType(0x01020304).AppendBytes(nil))

	seen := make(map[string]bool)
	for t0 := EnvelopeTypeTxV0; t0 <= EnvelopeTypeMessage; t0++ {
		require.True(t, t0.Known())
		require.False(t, seen[t0.String()])
		seen[t0.String()] = true
	}
	require.False(t, EnvelopeType(10).Known())
	require.Equal(t, "envelope(10)", EnvelopeType(10).String())
}

func TestNetworkIDString(t *testing.T) {
	partitiontest.PartitionTest(t)

	var n NetworkID
	require.True(t, n.IsZero())
	for i := range n {
		n[i] = byte(i)
	}
	require.False(t, n.IsZero())

	parsed, err := ParseNetworkID(n.String())
	require.NoError(t, err)
	require.Equal(t, n, parsed)
	require.NotEmpty(t, n.ShortString())

	_, err = ParseNetworkID("zz")
	require.Error(t, err)
	_, err = ParseNetworkID("0102")
	require.Error(t, err)
}

type codecTestObj struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	A uint64 `codec:"a"`
	B []byte `codec:"b"`
	C string `codec:"c"`
}

func TestCodecCanonical(t *testing.T) {
	partitiontest.PartitionTest(t)

	o := codecTestObj{A: 5, B: []byte{1, 2}, C: "x"}
	enc := Encode(&o)
	require.Equal(t, enc, Encode(&o))

	var d codecTestObj
	require.NoError(t, Decode(enc, &d))
	require.Equal(t, o, d)

	// zero fields are omitted
	require.Equal(t, []byte{0x80}, Encode(&codecTestObj{}))

	var j codecTestObj
	require.NoError(t, DecodeJSON(EncodeJSON(&o), &j))
	require.Equal(t, o, j)

	require.Error(t, Decode([]byte{0xc1}, &d))
	require.Error(t, Decode(nil, &d))
}
