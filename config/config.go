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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/protocol"
)

// ConfigFilename is the name of the config.json file where we store per-node settings
const ConfigFilename = "config.json"

// configVersion is the current version of the Local defaults.
const configVersion = uint32(1)

// Local holds the per-node-instance configuration settings.
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new
	Version uint32

	// NetworkPassphrase names the network. Its hash is the network ID that
	// every signature is bound to.
	NetworkPassphrase string

	// BaseLoggerDebugLevel specifies the logging level. The levels range from 0 (critical error / silent) to 5 (debug / verbose). The default value is 4 (‘Info’ - fairly verbose).
	BaseLoggerDebugLevel uint32

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// LedgerDBPath is the sqlite account store. Relative paths are resolved
	// against the data directory; an empty value selects the in-memory store.
	LedgerDBPath string

	// ConsensusVersion selects the consensus parameters invocations run under.
	ConsensusVersion protocol.ConsensusVersion
}

var defaultLocal = Local{
	Version:              configVersion,
	NetworkPassphrase:    "Invoker Test Network",
	BaseLoggerDebugLevel: 4,
	LogJSON:              false,
	LedgerDBPath:         "",
	ConsensusVersion:     protocol.ConsensusCurrentVersion,
}

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

// LoadConfigFromDisk returns a Local config structure based on merging the defaults
// with settings loaded from the config file from the custom dir.  If the custom file
// cannot be loaded, the default config is returned (with the error from loading the
// custom file).
func LoadConfigFromDisk(custom string) (c Local, err error) {
	return loadConfigFromFile(filepath.Join(custom, ConfigFilename))
}

func loadConfigFromFile(configFile string) (c Local, err error) {
	c = defaultLocal
	c.Version = 0 // Reset to 0 so we get the version from the loaded file.
	c, err = mergeConfigFromFile(configFile, c)
	if err != nil {
		return
	}
	if c.Version > configVersion {
		return c, fmt.Errorf("config version %d is newer than supported version %d", c.Version, configVersion)
	}
	c.Version = configVersion
	return
}

func mergeConfigFromFile(configpath string, source Local) (Local, error) {
	f, err := os.Open(configpath)
	if err != nil {
		return defaultLocal, err
	}
	defer f.Close()

	err = loadConfig(f, &source)
	return source, err
}

func loadConfig(reader io.Reader, config *Local) error {
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	return dec.Decode(config)
}

// SaveToDisk writes the Local settings into a root/ConfigFilename file
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveToFile saves the config to a specific filename, allowing overriding the default name
func (cfg Local) SaveToFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	return enc.Encode(cfg)
}

// NetworkID derives the network ID from the configured passphrase.
func (cfg Local) NetworkID() protocol.NetworkID {
	return crypto.NetworkIDFromPassphrase(cfg.NetworkPassphrase)
}

// ResolveLedgerPath returns the absolute path of the account store, or ""
// for the in-memory store.
func (cfg Local) ResolveLedgerPath(dataDir string) string {
	if cfg.LedgerDBPath == "" || filepath.IsAbs(cfg.LedgerDBPath) {
		return cfg.LedgerDBPath
	}
	return filepath.Join(dataDir, cfg.LedgerDBPath)
}
