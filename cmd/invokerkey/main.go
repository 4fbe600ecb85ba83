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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/algorand/go-invoker/util/metrics"
)

var (
	dataDir           string
	networkPassphrase string
	metricsFile       string
)

var rootCmd = &cobra.Command{
	Use:   "invokerkey",
	Short: "CLI for invoker keys, presigned messages and invocation envelopes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if metricsFile == "" {
			return
		}
		if err := writeMetrics(metrics.DefaultRegistry(), metricsFile); err != nil {
			reportErrorf("Cannot write metrics to %s: %v", metricsFile, err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", "", "Data directory holding config.json")
	rootCmd.PersistentFlags().StringVar(&networkPassphrase, "network", "", "Network passphrase, overriding the data directory config")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write verification counters in Prometheus text format to this file after the command (- for stdout)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(networkIDCmd)
	rootCmd.AddCommand(signMessageCmd)
	rootCmd.AddCommand(verifyMessageCmd)
	rootCmd.AddCommand(signInvocationCmd)
	rootCmd.AddCommand(verifyInvocationCmd)
}

func main() {
	// Hidden command to generate docs in a given directory
	// invokerkey generate-docs [path]
	if len(os.Args) == 3 && os.Args[1] == "generate-docs" {
		err := doc.GenMarkdownTree(rootCmd, os.Args[2])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
