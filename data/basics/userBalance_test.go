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

package basics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/test/partitiontest"
)

func TestSignerWeight(t *testing.T) {
	partitiontest.PartitionTest(t)
	master := crypto.Ed25519PublicKey(crypto.Hash([]byte("master")))
	extra := crypto.Ed25519PublicKey(crypto.Hash([]byte("extra")))
	stranger := crypto.Ed25519PublicKey(crypto.Hash([]byte("stranger")))
	addr := PublicKeyIdentity(master)

	ad := AccountData{MasterWeight: 1, Signers: []Signer{{Key: extra, Weight: 3}}}
	require.Equal(t, uint64(1), ad.SignerWeight(addr, master))
	require.Equal(t, uint64(3), ad.SignerWeight(addr, extra))
	require.Equal(t, uint64(0), ad.SignerWeight(addr, stranger))

	ad.MasterWeight = 0
	require.Equal(t, uint64(0), ad.SignerWeight(addr, master))
}

func TestAvailableBalance(t *testing.T) {
	partitiontest.PartitionTest(t)
	require.Equal(t, uint64(900), AccountData{Balance: 1000, MinBalance: 100}.AvailableBalance())
	require.Equal(t, uint64(0), AccountData{Balance: 50, MinBalance: 100}.AvailableBalance())
}

func TestWithFeeCharged(t *testing.T) {
	partitiontest.PartitionTest(t)
	ad := AccountData{SeqNum: 5, Balance: 1000, MinBalance: 100}

	next, err := ad.WithFeeCharged(6, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(6), next.SeqNum)
	require.Equal(t, uint64(900), next.Balance)
	require.Equal(t, uint64(5), ad.SeqNum)

	_, err = ad.WithFeeCharged(7, 100)
	require.Error(t, err)
	_, err = ad.WithFeeCharged(6, 901)
	require.Error(t, err)
	_, err = ad.WithFeeCharged(6, math.MaxUint64)
	require.Error(t, err)
}

func TestOverflow(t *testing.T) {
	partitiontest.PartitionTest(t)
	_, o := OAdd(uint64(math.MaxUint64), 1)
	require.True(t, o)
	_, o = OSub(uint64(1), 2)
	require.True(t, o)
	require.Equal(t, uint8(0), SubSaturate(uint8(1), 2))

	var ot OverflowTracker
	require.Equal(t, uint64(3), ot.Add(1, 2))
	require.False(t, ot.Overflowed)
	ot.Add(math.MaxUint64, 1)
	require.True(t, ot.Overflowed)
}
