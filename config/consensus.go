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
	"os"
	"path/filepath"

	"github.com/algorand/go-invoker/protocol"
)

// ConsensusParams specifies settings that might vary based on the
// particular version of the consensus protocol.
type ConsensusParams struct {
	// MaxCallDepth bounds the number of simultaneously active frames on an
	// invoker stack, the root frame included.
	MaxCallDepth int

	// Reentrancy decides whether a contract already on the stack may be
	// called again.
	Reentrancy ReentrancyPolicy

	// MaxSymbolLen is the longest function symbol an envelope may name.
	MaxSymbolLen int

	// MaxInvocationParams is the largest number of parameters an envelope
	// may pass.
	MaxInvocationParams int

	// MaxValueBytes bounds the size of a bytes parameter.
	MaxValueBytes int

	// MaxBytecodeSize bounds the bytecode of an invocation by code.
	MaxBytecodeSize int

	// MaxFeeSignatures is the largest number of fee signatures an envelope
	// may carry.
	MaxFeeSignatures int

	// MinFee is the smallest fee an envelope may declare.
	MinFee uint64

	// ApprovedUpgrades describes the upgrade proposals that this protocol
	// implementation will vote for, along with their delay value.
	ApprovedUpgrades map[protocol.ConsensusVersion]uint64
}

// ConsensusProtocols defines a set of supported protocol versions and their
// corresponding parameters.
type ConsensusProtocols map[protocol.ConsensusVersion]ConsensusParams

// Consensus tracks the protocol-level settings for different versions of the
// consensus protocol.
var Consensus ConsensusProtocols

// ConfigurableConsensusProtocolsFilename defines a set of consensus protocols that
// are to be loaded from the data directory ( if present ), to override the
// built-in supported consensus protocols.
const ConfigurableConsensusProtocolsFilename = "consensus.json"

func init() {
	Consensus = make(ConsensusProtocols)
	initConsensusProtocols()
}

// DeepCopy creates a deep copy of a consensus protocols map.
func (cp ConsensusProtocols) DeepCopy() ConsensusProtocols {
	staticConsensus := make(ConsensusProtocols)
	for consensusVersion, consensusParams := range cp {
		// recreate the ApprovedUpgrades map since we don't want to modify the original one.
		if consensusParams.ApprovedUpgrades != nil {
			newApprovedUpgrades := make(map[protocol.ConsensusVersion]uint64, len(consensusParams.ApprovedUpgrades))
			for ver, when := range consensusParams.ApprovedUpgrades {
				newApprovedUpgrades[ver] = when
			}
			consensusParams.ApprovedUpgrades = newApprovedUpgrades
		}
		staticConsensus[consensusVersion] = consensusParams
	}
	return staticConsensus
}

// Merge merges a configurable consensus on top of the existing consensus protocol and return
// a new consensus protocol without modify any of the incoming structures.
//
// An entry with a nil ApprovedUpgrades map deletes the version.
func (cp ConsensusProtocols) Merge(configurableConsensus ConsensusProtocols) ConsensusProtocols {
	staticConsensus := cp.DeepCopy()

	for consensusVersion, consensusParams := range configurableConsensus {
		if consensusParams.ApprovedUpgrades == nil {
			for cVer, cParam := range staticConsensus {
				if cVer == consensusVersion {
					delete(staticConsensus, cVer)
				} else {
					delete(cParam.ApprovedUpgrades, consensusVersion)
				}
			}
		} else {
			staticConsensus[consensusVersion] = consensusParams
		}
	}

	return staticConsensus
}

// Params looks up the parameters of a version.
func (cp ConsensusProtocols) Params(v protocol.ConsensusVersion) (ConsensusParams, error) {
	params, ok := cp[v]
	if !ok {
		return ConsensusParams{}, protocol.Error(fmt.Sprintf("unsupported consensus version %q", v))
	}
	if err := params.Validate(); err != nil {
		return ConsensusParams{}, fmt.Errorf("consensus version %q: %w", v, err)
	}
	return params, nil
}

// Validate rejects parameter sets no invocation could run under.
func (params ConsensusParams) Validate() error {
	switch {
	case params.MaxCallDepth < 1:
		return fmt.Errorf("MaxCallDepth must be at least 1, got %d", params.MaxCallDepth)
	case params.MaxSymbolLen < 1:
		return fmt.Errorf("MaxSymbolLen must be at least 1, got %d", params.MaxSymbolLen)
	case params.MaxInvocationParams < 0 || params.MaxValueBytes < 0 || params.MaxBytecodeSize < 0 || params.MaxFeeSignatures < 0:
		return fmt.Errorf("negative limit in consensus parameters")
	case !params.Reentrancy.Known():
		return fmt.Errorf("unknown reentrancy policy %d", params.Reentrancy)
	}
	return nil
}

// LoadConfigurableConsensusProtocols loads the configurable protocols from the data directory
// and merges them into the global Consensus map.
func LoadConfigurableConsensusProtocols(dataDirectory string) error {
	newConsensus, err := PreloadConfigurableConsensusProtocols(dataDirectory)
	if err != nil {
		return err
	}
	if newConsensus != nil {
		Consensus = newConsensus
	}
	return nil
}

// PreloadConfigurableConsensusProtocols loads the configurable protocols from the data directory
// and merge it with a copy of the Consensus map. Then, it returns it to the caller.
func PreloadConfigurableConsensusProtocols(dataDirectory string) (ConsensusProtocols, error) {
	consensusProtocolPath := filepath.Join(dataDirectory, ConfigurableConsensusProtocolsFilename)
	file, err := os.Open(consensusProtocolPath)

	if err != nil {
		if os.IsNotExist(err) {
			// this file is not required, only optional. if it's missing, no harm is done.
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	configurableConsensus := make(ConsensusProtocols)

	decoder := json.NewDecoder(file)
	err = decoder.Decode(&configurableConsensus)
	if err != nil {
		return nil, err
	}
	return Consensus.Merge(configurableConsensus), nil
}

// SaveConfigurableConsensus saves the configurable protocols file to the provided data directory.
func SaveConfigurableConsensus(dataDirectory string, params ConsensusProtocols) error {
	consensusProtocolPath := filepath.Join(dataDirectory, ConfigurableConsensusProtocolsFilename)

	if len(params) == 0 {
		// we have no consensus params to write. In this case, just delete the existing file
		// ( if any )
		err := os.Remove(consensusProtocolPath)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	encodedConsensusParams, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return os.WriteFile(consensusProtocolPath, encodedConsensusParams, 0644)
}

func initConsensusProtocols() {
	// WARNING: copying a ConsensusParams by value into a new variable
	// does not copy the ApprovedUpgrades map.  Make sure that each new
	// ConsensusParams structure gets a fresh ApprovedUpgrades map.
	v1 := ConsensusParams{
		MaxCallDepth:        8,
		Reentrancy:          ReentrancyDeny,
		MaxSymbolLen:        10,
		MaxInvocationParams: 16,
		MaxValueBytes:       4096,
		MaxBytecodeSize:     64 * 1024,
		MaxFeeSignatures:    20,
		MinFee:              100,
		ApprovedUpgrades:    map[protocol.ConsensusVersion]uint64{},
	}
	Consensus[protocol.ConsensusV1] = v1
}
