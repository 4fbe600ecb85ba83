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
)

var generateKeyfile string
var generatePubkeyfile string

func init() {
	generateCmd.Flags().StringVarP(&generateKeyfile, "keyfile", "f", "", "Private key filename")
	generateCmd.Flags().StringVarP(&generatePubkeyfile, "pubkeyfile", "p", "", "Public key filename")
	generateCmd.MarkFlagRequired("keyfile")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key and write its seed to a key file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		var seed crypto.Seed
		crypto.RandBytes(seed[:])

		key := crypto.GenerateSignatureSecrets(seed)
		publicKeyChecksummed := basics.PublicKeyIdentity(key.SignatureVerifier).String()

		if err := writePrivateKey(generateKeyfile, seed); err != nil {
			reportErrorf("Cannot write key to %s: %v", generateKeyfile, err)
		}
		fmt.Printf("Public key: %s\n", publicKeyChecksummed)

		if generatePubkeyfile != "" {
			if err := writePublicKey(generatePubkeyfile, publicKeyChecksummed); err != nil {
				reportErrorf("Cannot write public key to %s: %v", generatePubkeyfile, err)
			}
		}
	},
}
