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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/algorand/go-invoker/config"
	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions"
	"github.com/algorand/go-invoker/data/transactions/verify"
	"github.com/algorand/go-invoker/ledger"
	"github.com/algorand/go-invoker/protocol"
)

var (
	invocationKeyfile     string
	invocationFeeKeyfiles []string
	invocationSource      string
	invocationSeq         uint64
	invocationFee         uint64
	invocationContract    string
	invocationCodeFile    string
	invocationSymbol      string
	invocationArgs        []string
	invocationOutFile     string
	invocationInFile      string
	invocationLedger      string
)

func init() {
	signInvocationCmd.Flags().StringVarP(&invocationKeyfile, "keyfile", "f", "", "Invoker private key filename")
	signInvocationCmd.Flags().StringSliceVar(&invocationFeeKeyfiles, "fee-keyfile", nil, "Fee signer private key filenames (default: the invoker key)")
	signInvocationCmd.Flags().StringVar(&invocationSource, "source", "", "Fee paying account (default: the first fee signer)")
	signInvocationCmd.Flags().Uint64Var(&invocationSeq, "seq", 0, "Sequence number of the invocation")
	signInvocationCmd.Flags().Uint64Var(&invocationFee, "fee", 0, "Fee (default: the protocol minimum)")
	signInvocationCmd.Flags().StringVar(&invocationContract, "contract", "", "Target contract address")
	signInvocationCmd.Flags().StringVar(&invocationCodeFile, "code", "", "Target bytecode filename, instead of --contract")
	signInvocationCmd.Flags().StringVar(&invocationSymbol, "symbol", "", "Function to invoke")
	signInvocationCmd.Flags().StringArrayVar(&invocationArgs, "arg", nil, "Parameter such as u64:100 or addr:G...; repeat in order")
	signInvocationCmd.Flags().StringVarP(&invocationOutFile, "outfile", "o", stdoutFilenameValue, "Envelope output filename, - for stdout")
	signInvocationCmd.MarkFlagRequired("keyfile")
	signInvocationCmd.MarkFlagRequired("seq")
	signInvocationCmd.MarkFlagRequired("symbol")

	verifyInvocationCmd.Flags().StringVarP(&invocationInFile, "infile", "i", stdinFileNameValue, "Envelope filename, - for stdin")
	verifyInvocationCmd.Flags().StringVar(&invocationLedger, "ledger", "", "Account database to check fee preconditions against (default: the data directory ledger)")
}

// invocationRequest is everything needed to build an invocation body.
type invocationRequest struct {
	source   string
	seq      uint64
	fee      uint64
	contract string
	code     []byte
	symbol   string
	args     []string
}

// buildBody assembles the body; defaultSource is used when req names no
// source account.
func buildBody(req invocationRequest, defaultSource basics.Address, proto config.ConsensusParams) (transactions.InvocationBody, error) {
	body := transactions.InvocationBody{
		Source: defaultSource,
		SeqNum: req.seq,
		Fee:    req.fee,
		Symbol: req.symbol,
	}
	if req.source != "" {
		addr, err := basics.ParseAddress(req.source)
		if err != nil {
			return body, fmt.Errorf("source %s: %w", req.source, err)
		}
		body.Source = addr
	}
	if body.Fee == 0 {
		body.Fee = proto.MinFee
	}

	switch {
	case req.contract != "" && req.code != nil:
		return body, fmt.Errorf("give either a contract or bytecode, not both")
	case req.contract != "":
		addr, err := basics.ParseAddress(req.contract)
		if err != nil {
			return body, fmt.Errorf("contract %s: %w", req.contract, err)
		}
		if !addr.IsContract() {
			return body, fmt.Errorf("%s is not a contract address", req.contract)
		}
		body.Target = transactions.ByReference(addr.Contract)
	case req.code != nil:
		body.Target = transactions.ByCode(req.code)
	default:
		return body, fmt.Errorf("no target: give a contract or bytecode")
	}

	for i, arg := range req.args {
		v, err := basics.ParseValue(arg)
		if err != nil {
			return body, fmt.Errorf("parameter %d: %w", i, err)
		}
		body.Parameters = append(body.Parameters, v)
	}

	if err := body.WellFormed(proto); err != nil {
		return body, err
	}
	return body, nil
}

func consensusParams(cfg config.Local) config.ConsensusParams {
	if dataDir != "" {
		if err := config.LoadConfigurableConsensusProtocols(dataDir); err != nil {
			reportErrorf("Cannot load consensus overrides from %s: %v", dataDir, err)
		}
	}
	proto, err := config.Consensus.Params(cfg.ConsensusVersion)
	if err != nil {
		reportErrorf("%v", err)
	}
	return proto
}

func mustLocal() config.Local {
	cfg, err := loadLocal(dataDir)
	if err != nil {
		reportErrorf("Cannot load config from %s: %v", dataDir, err)
	}
	return cfg
}

var signInvocationCmd = &cobra.Command{
	Use:   "sign-invocation",
	Short: "Build and sign an invocation envelope",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		proto := consensusParams(mustLocal())
		networkID := mustNetwork()
		invoker := mustLoadKey(invocationKeyfile)

		feeSigners := []*crypto.SignatureSecrets{invoker}
		if len(invocationFeeKeyfiles) > 0 {
			feeSigners = feeSigners[:0]
			for _, f := range invocationFeeKeyfiles {
				feeSigners = append(feeSigners, mustLoadKey(f))
			}
		}

		req := invocationRequest{
			source:   invocationSource,
			seq:      invocationSeq,
			fee:      invocationFee,
			contract: invocationContract,
			symbol:   invocationSymbol,
			args:     invocationArgs,
		}
		if invocationCodeFile != "" {
			code, err := readFile(invocationCodeFile)
			if err != nil {
				reportErrorf("Cannot read bytecode from %s: %v", invocationCodeFile, err)
			}
			req.code = code
		}

		body, err := buildBody(req, basics.PublicKeyIdentity(feeSigners[0].SignatureVerifier), proto)
		if err != nil {
			reportErrorf("%v", err)
		}
		env := body.Sign(networkID, invoker, feeSigners...)
		if err := writeFile(invocationOutFile, env.Encode(), 0666); err != nil {
			reportErrorf("Cannot write envelope to %s: %v", invocationOutFile, err)
		}
		fmt.Fprintf(os.Stderr, "Transaction ID: %s\n", env.ID(networkID))
	},
}

// checkInvocation decodes an envelope and checks it the way the evaluator
// would before running it. The ledger checks are skipped when ledger is nil.
func checkInvocation(data []byte, networkID protocol.NetworkID, proto config.ConsensusParams, l verify.LedgerForValidation) (transactions.InvocationEnvelope, error) {
	env, err := transactions.DecodeInvocationEnvelope(data)
	if err != nil {
		return env, err
	}
	if l != nil {
		err = verify.Envelope(env, networkID, proto, l)
	} else {
		err = env.WellFormed(proto)
	}
	if err != nil {
		return env, err
	}
	return env, verify.InvokerErr(env, networkID)
}

var verifyInvocationCmd = &cobra.Command{
	Use:   "verify-invocation",
	Short: "Check the well-formedness and signatures of an invocation envelope",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := mustLocal()
		log := initLogging(cfg)
		proto := consensusParams(cfg)
		networkID := mustNetwork()

		data, err := readFile(invocationInFile)
		if err != nil {
			reportErrorf("Cannot read envelope from %s: %v", invocationInFile, err)
		}

		ledgerPath := invocationLedger
		if ledgerPath == "" && dataDir != "" {
			ledgerPath = cfg.ResolveLedgerPath(dataDir)
		}
		var l verify.LedgerForValidation
		if ledgerPath != "" {
			store, err := ledger.OpenSQLStore(context.Background(), ledgerPath, false)
			if err != nil {
				reportErrorf("Cannot open ledger %s: %v", ledgerPath, err)
			}
			defer store.Close()
			l = store
			log.With("ledger", ledgerPath).Debug("checking fee preconditions")
		}

		env, err := checkInvocation(data, networkID, proto, l)
		if err != nil {
			reportErrorf("Envelope rejected: %v", err)
		}
		fmt.Printf("Transaction ID: %s\n", env.ID(networkID))
		fmt.Printf("Invoker: %s\n", basics.PublicKeyIdentity(env.InvokerSignature.PublicKey))
		fmt.Printf("Source: %s\n", env.Body.Source)
		fmt.Printf("Symbol: %s\n", env.Body.Symbol)
	},
}
