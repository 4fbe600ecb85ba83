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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algorand/go-invoker/crypto"
	"github.com/algorand/go-invoker/data/basics"
	"github.com/algorand/go-invoker/data/transactions/verify"
	"github.com/algorand/go-invoker/protocol"
)

var (
	messageKeyfile  string
	messageFile     string
	messageSigOut   string
	messageSigFile  string
	messageContract string
	messageDomain   string
)

func init() {
	for _, cmd := range []*cobra.Command{signMessageCmd, verifyMessageCmd} {
		cmd.Flags().StringVarP(&messageFile, "message", "m", stdinFileNameValue, "Message filename, - for stdin")
		cmd.Flags().StringVar(&messageContract, "contract", "", "Verifying contract; wraps the message in a presigned message structure")
		cmd.Flags().StringVar(&messageDomain, "domain", "", "Application domain of the presigned message")
	}
	signMessageCmd.Flags().StringVarP(&messageKeyfile, "keyfile", "f", "", "Private key filename")
	signMessageCmd.Flags().StringVarP(&messageSigOut, "sig", "s", stdoutFilenameValue, "Signature output filename, - for stdout")
	signMessageCmd.MarkFlagRequired("keyfile")
	verifyMessageCmd.Flags().StringVarP(&messageSigFile, "sig", "s", "", "Signature filename")
	verifyMessageCmd.MarkFlagRequired("sig")
}

// messageBytes returns the bytes that get signed: the raw message, or the
// encoded presigned message when a verifying contract is named.
func messageBytes(message []byte, contract string, domain string) ([]byte, error) {
	if contract == "" {
		if domain != "" {
			return nil, fmt.Errorf("a domain requires a verifying contract")
		}
		return message, nil
	}
	addr, err := basics.ParseAddress(contract)
	if err != nil {
		return nil, fmt.Errorf("verifying contract %s: %w", contract, err)
	}
	if !addr.IsContract() {
		return nil, fmt.Errorf("verifying contract %s is not a contract address", contract)
	}
	m := verify.PresignedMessage{VerifyingContract: addr.Contract, Domain: domain, Payload: message}
	return m.Encode(), nil
}

func signMessage(key *crypto.SignatureSecrets, networkID protocol.NetworkID, message []byte, contract, domain string) ([]byte, error) {
	msg, err := messageBytes(message, contract, domain)
	if err != nil {
		return nil, err
	}
	ks := verify.SignMessage(key, networkID, msg)
	return protocol.EncodeJSON(&ks), nil
}

func verifyMessage(networkID protocol.NetworkID, message, sig []byte, contract, domain string) (crypto.KeyedSignature, bool, error) {
	var ks crypto.KeyedSignature
	msg, err := messageBytes(message, contract, domain)
	if err != nil {
		return ks, false, err
	}
	if err := protocol.DecodeJSON(sig, &ks); err != nil {
		return ks, false, fmt.Errorf("cannot decode signature: %w", err)
	}
	return ks, verify.Message(networkID, msg, ks), nil
}

var signMessageCmd = &cobra.Command{
	Use:   "sign-message",
	Short: "Sign a presigned message for verification by a contract",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		key := mustLoadKey(messageKeyfile)
		message, err := readFile(messageFile)
		if err != nil {
			reportErrorf("Cannot read message from %s: %v", messageFile, err)
		}
		out, err := signMessage(key, mustNetwork(), message, messageContract, messageDomain)
		if err != nil {
			reportErrorf("%v", err)
		}
		if err := writeFile(messageSigOut, append(out, '\n'), 0666); err != nil {
			reportErrorf("Cannot write signature to %s: %v", messageSigOut, err)
		}
	},
}

var verifyMessageCmd = &cobra.Command{
	Use:   "verify-message",
	Short: "Check a presigned message signature",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		message, err := readFile(messageFile)
		if err != nil {
			reportErrorf("Cannot read message from %s: %v", messageFile, err)
		}
		sig, err := readFile(messageSigFile)
		if err != nil {
			reportErrorf("Cannot read signature from %s: %v", messageSigFile, err)
		}
		ks, ok, err := verifyMessage(mustNetwork(), message, sig, messageContract, messageDomain)
		if err != nil {
			reportErrorf("%v", err)
		}
		if !ok {
			reportErrorf("Signature by %s is not valid", ks.PublicKey)
		}
		fmt.Printf("Signature valid, signed by %s\n", basics.PublicKeyIdentity(ks.PublicKey))
	},
}
