// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutAll bool

// logoutCmd removes the stored refresh credential.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored refresh credential",
	Long: `The logout command removes the refresh credential and login state from the OS
keychain. Subsequent requests to the Discovery API go out unauthenticated.

With --all the stored connection mode is removed as well.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.session.Clear(); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		if logoutAll {
			if err := a.conns.Clear(); err != nil {
				return fmt.Errorf("clear connection: %w", err)
			}
		}
		fmt.Println("✅ Stored credentials have been removed")
		return nil
	},
}

func init() {
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Also remove the stored connection")
	rootCmd.AddCommand(logoutCmd)
}
