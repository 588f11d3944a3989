// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"discoverybridge/cli/internal/connection"
)

// statusCmd shows the stored login and connection state without calling the API.
var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show login and connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		fmt.Printf("API:        %s\n", a.cfg.APIURL)
		if a.session.HasRefreshCredential() {
			st, _ := a.session.State()
			if st.Account != "" {
				fmt.Printf("👤 Account: %s\n", st.Account)
			} else {
				fmt.Println("👤 Account: logged in")
			}
		} else {
			fmt.Println("🔒 You're not logged in. Requests go out unauthenticated.")
			fmt.Println("   Run 'discovery-bridge login' to sign in.")
		}

		raw, err := a.conns.Load()
		if err != nil {
			return err
		}
		data, err := connection.Decode(raw)
		switch {
		case errors.Is(err, connection.ErrNoConnection):
			fmt.Println("🧭 Connection: none. Run 'discovery-bridge connect catalog' or 'connect query'.")
		case err != nil:
			fmt.Printf("🧭 Connection: unreadable (%v)\n", err)
		case data.Mode == connection.ModeQuery:
			fmt.Printf("🧭 Connection: query\n   %s\n", data.Query)
		default:
			fmt.Println("🧭 Connection: catalog")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
