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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/logging"
	"github.com/algorand/go-invoker/protocol"
	"github.com/algorand/go-invoker/util/metrics"
)

const (
	stdoutFilenameValue = "-"
	stdinFileNameValue  = "-"
)

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// loadLocal returns the node configuration of the data directory, or the
// defaults when no data directory was given.
func loadLocal(dir string) (config.Local, error) {
	if dir == "" {
		return config.GetDefaultLocal(), nil
	}
	cfg, err := config.LoadConfigFromDisk(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	return cfg, nil
}

// resolveNetwork picks the network ID: an explicit passphrase wins over
// the data directory config, which wins over the default network.
func resolveNetwork(dir, passphrase string) (protocol.NetworkID, error) {
	if passphrase != "" {
		return crypto.NetworkIDFromPassphrase(passphrase), nil
	}
	cfg, err := loadLocal(dir)
	if err != nil {
		return protocol.NetworkID{}, err
	}
	return cfg.NetworkID(), nil
}

func mustNetwork() protocol.NetworkID {
	n, err := resolveNetwork(dataDir, networkPassphrase)
	if err != nil {
		reportErrorf("Cannot load config from %s: %v", dataDir, err)
	}
	return n
}

// writeMetrics dumps reg in Prometheus text format to filename.
func writeMetrics(reg *metrics.Registry, filename string) error {
	var buf strings.Builder
	if err := reg.WriteMetrics(&buf); err != nil {
		return err
	}
	return writeFile(filename, []byte(buf.String()), 0644)
}

func initLogging(cfg config.Local) logging.Logger {
	log := logging.Base()
	log.SetLevel(logging.Level(cfg.BaseLoggerDebugLevel))
	if cfg.LogJSON {
		log.SetJSONFormatter()
	}
	return log
}

func loadKeyfile(keyfile string) (crypto.Seed, error) {
	var seed crypto.Seed
	seedbytes, err := os.ReadFile(keyfile)
	if err != nil {
		return seed, fmt.Errorf("cannot read key seed from %s: %w", keyfile, err)
	}
	if len(seedbytes) != len(seed) {
		return seed, fmt.Errorf("key file %s holds %d bytes, want %d", keyfile, len(seedbytes), len(seed))
	}
	copy(seed[:], seedbytes)
	return seed, nil
}

func mustLoadKey(keyfile string) *crypto.SignatureSecrets {
	seed, err := loadKeyfile(keyfile)
	if err != nil {
		reportErrorf("%v", err)
	}
	return crypto.GenerateSignatureSecrets(seed)
}

func writePrivateKey(keyfile string, seed crypto.Seed) error {
	return os.WriteFile(keyfile, seed[:], 0600)
}

func writePublicKey(pubkeyfile string, checksummed string) error {
	data := fmt.Sprintf("%s\n", checksummed)
	return os.WriteFile(pubkeyfile, []byte(data), 0666)
}

// writeFile is a wrapper of os.WriteFile which considers the special
// case of stdout filename
func writeFile(filename string, data []byte, perm os.FileMode) error {
	if filename == stdoutFilenameValue {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(filename, data, perm)
}

// readFile is a wrapper of os.ReadFile which considers the
// special case of stdin filename
func readFile(filename string) ([]byte, error) {
	if filename == stdinFileNameValue {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(filename)
}
