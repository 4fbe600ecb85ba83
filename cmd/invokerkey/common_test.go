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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/test/partitiontest"
	"github.com/algorand/go-invoker/util/metrics"
)

func TestResolveNetwork(t *testing.T) {
	partitiontest.PartitionTest(t)

	def, err := resolveNetwork("", "")
	require.NoError(t, err)
	require.Equal(t, config.GetDefaultLocal().NetworkID(), def)

	explicit, err := resolveNetwork("", "Some Network")
	require.NoError(t, err)
	require.Equal(t, crypto.NetworkIDFromPassphrase("Some Network"), explicit)

	// a data directory without config.json uses the defaults
	dir := t.TempDir()
	n, err := resolveNetwork(dir, "")
	require.NoError(t, err)
	require.Equal(t, def, n)

	cfg := config.GetDefaultLocal()
	cfg.NetworkPassphrase = "Directory Network"
	require.NoError(t, cfg.SaveToDisk(dir))
	n, err = resolveNetwork(dir, "")
	require.NoError(t, err)
	require.Equal(t, crypto.NetworkIDFromPassphrase("Directory Network"), n)

	n, err = resolveNetwork(dir, "Some Network")
	require.NoError(t, err)
	require.Equal(t, explicit, n)

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFilename), []byte(`{"Bogus": 1}`), 0600))
	_, err = resolveNetwork(dir, "")
	require.Error(t, err)
}

func TestKeyfileRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	fn := filepath.Join(t.TempDir(), "key")
	var seed crypto.Seed
	crypto.RandBytes(seed[:])
	require.NoError(t, writePrivateKey(fn, seed))

	loaded, err := loadKeyfile(fn)
	require.NoError(t, err)
	require.Equal(t, seed, loaded)

	info, err := os.Stat(fn)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, os.WriteFile(fn, seed[:10], 0600))
	_, err = loadKeyfile(fn)
	require.Error(t, err)
	_, err = loadKeyfile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWriteMetrics(t *testing.T) {
	partitiontest.PartitionTest(t)

	reg := metrics.NewRegistry()
	rejected := reg.NewTagCounter(metrics.EnvelopeRejected, "kind")
	rejected.Add("BAD_AUTH", 2)

	out := filepath.Join(t.TempDir(), "metrics.txt")
	require.NoError(t, writeMetrics(reg, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `invoker_verify_envelope_rej{kind="BAD_AUTH"} 2`)

	require.Error(t, writeMetrics(reg, filepath.Join(t.TempDir(), "missing", "metrics.txt")))
}
