// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for discovery-bridge.
// It runs the Discovery adapter inside a local host runtime: logging in against
// the identity provider, choosing a connection mode, and pulling schemas and
// rows into the terminal, files, an HTTP surface or PostgreSQL.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "discovery-bridge",
	Short: "Expose Discovery datasets and queries as host tables",
	Long: `discovery-bridge connects to a Discovery data catalog and presents its datasets,
or the result of a single query, as typed tables. Log in once, pick a connection mode
with 'connect', then list schemas, fetch rows, serve them over HTTP or export them to
PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(versionLine())
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
