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

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/test/partitiontest"
)

func TestDefaultConsensus(t *testing.T) {
	partitiontest.PartitionTest(t)
	params, err := Consensus.Params(protocol.ConsensusCurrentVersion)
	require.NoError(t, err)
	require.Equal(t, 8, params.MaxCallDepth)
	require.Equal(t, ReentrancyDeny, params.Reentrancy)
	require.Equal(t, 10, params.MaxSymbolLen)
	require.Equal(t, uint64(100), params.MinFee)

	_, err = Consensus.Params("no-such-version")
	require.Error(t, err)
}

func TestConsensusMerge(t *testing.T) {
	partitiontest.PartitionTest(t)
	custom := Consensus[protocol.ConsensusV1]
	custom.MaxCallDepth = 3
	custom.ApprovedUpgrades = map[protocol.ConsensusVersion]uint64{}

	merged := Consensus.Merge(ConsensusProtocols{"custom": custom})
	require.Equal(t, 3, merged["custom"].MaxCallDepth)
	require.Equal(t, 8, merged[protocol.ConsensusV1].MaxCallDepth)
	_, ok := Consensus["custom"]
	require.False(t, ok)

	deleted := merged.Merge(ConsensusProtocols{"custom": ConsensusParams{}})
	_, ok = deleted["custom"]
	require.False(t, ok)
	require.Contains(t, merged, protocol.ConsensusVersion("custom"))
}

func TestConsensusParamsValidate(t *testing.T) {
	partitiontest.PartitionTest(t)
	good := Consensus[protocol.ConsensusV1]
	require.NoError(t, good.Validate())

	bad := good
	bad.MaxCallDepth = 0
	require.Error(t, bad.Validate())

	bad = good
	bad.Reentrancy = ReentrancyPolicy(7)
	require.Error(t, bad.Validate())

	bad = good
	bad.MaxFeeSignatures = -1
	require.Error(t, bad.Validate())
}

func TestLoadConfigurableConsensusProtocols(t *testing.T) {
	partitiontest.PartitionTest(t)
	dir := t.TempDir()

	loaded, err := PreloadConfigurableConsensusProtocols(dir)
	require.NoError(t, err)
	require.Nil(t, loaded)

	custom := Consensus[protocol.ConsensusV1]
	custom.Reentrancy = ReentrancyAllow
	custom.MaxCallDepth = 4
	custom.ApprovedUpgrades = map[protocol.ConsensusVersion]uint64{}
	require.NoError(t, SaveConfigurableConsensus(dir, ConsensusProtocols{"wide": custom}))

	raw, err := os.ReadFile(filepath.Join(dir, ConfigurableConsensusProtocolsFilename))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"Reentrancy":"allow"`)

	loaded, err = PreloadConfigurableConsensusProtocols(dir)
	require.NoError(t, err)
	require.Equal(t, ReentrancyAllow, loaded["wide"].Reentrancy)
	require.Equal(t, 4, loaded["wide"].MaxCallDepth)
	require.Contains(t, loaded, protocol.ConsensusV1)

	require.NoError(t, SaveConfigurableConsensus(dir, nil))
	_, err = os.Stat(filepath.Join(dir, ConfigurableConsensusProtocolsFilename))
	require.True(t, os.IsNotExist(err))
}

func TestReentrancyPolicyText(t *testing.T) {
	partitiontest.PartitionTest(t)
	for _, p := range []ReentrancyPolicy{ReentrancyDeny, ReentrancyDenySelf, ReentrancyAllow} {
		b, err := json.Marshal(p)
		require.NoError(t, err)
		var back ReentrancyPolicy
		require.NoError(t, json.Unmarshal(b, &back))
		require.Equal(t, p, back)
	}
	require.Equal(t, `"deny-self"`, mustJSON(t, ReentrancyDenySelf))

	var p ReentrancyPolicy
	require.Error(t, json.Unmarshal([]byte(`"sometimes"`), &p))
	_, err := json.Marshal(ReentrancyPolicy(9))
	require.Error(t, err)
}

func mustJSON(t *testing.T, v interface{}) string {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestLocalConfigRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)
	dir := t.TempDir()

	c, err := LoadConfigFromDisk(dir)
	require.Error(t, err)
	require.Equal(t, GetDefaultLocal(), c)

	c.NetworkPassphrase = "Private Net"
	c.LogJSON = true
	c.LedgerDBPath = "accounts.sqlite"
	require.NoError(t, c.SaveToDisk(dir))

	loaded, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, c, loaded)
	require.Equal(t, filepath.Join(dir, "accounts.sqlite"), loaded.ResolveLedgerPath(dir))
	require.NotEqual(t, GetDefaultLocal().NetworkID(), loaded.NetworkID())
}

func TestLocalConfigPartialFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(`{"LogJSON": true}`), 0644))

	c, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.True(t, c.LogJSON)
	require.Equal(t, GetDefaultLocal().NetworkPassphrase, c.NetworkPassphrase)
	require.Equal(t, configVersion, c.Version)
	require.Equal(t, "", c.ResolveLedgerPath(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(`{"Bogus": 1}`), 0644))
	_, err = LoadConfigFromDisk(dir)
	require.Error(t, err)
}
