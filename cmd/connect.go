// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"discoverybridge/cli/internal/connection"
	"discoverybridge/cli/internal/terminal"
)

var queryFile string

const queryPrompt = "Enter query (finish with an empty line): "

// connectCmd chooses the connection mode stored for the adapter.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Choose between the dataset catalog and a single query",
	Long: `The connect command stores the connection mode the adapter reads on every
schema and data call.

  catalog  expose every API-accessible CSV or GeoJSON dataset as a table
  query    expose the result of one query as the table "query"

The choice is stored in the discovery-bridge config directory.`,
}

var connectCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Expose the dataset catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitConnection(connection.ModeCatalog, "")
	},
}

var connectQueryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Expose the result of one query",
	Long: `Store a query as the connection. The query is taken from the arguments, from
--file, or read from standard input when neither is given. It is stored verbatim.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive := len(args) == 0 && queryFile == "" && terminal.IsInteractive(os.Stdin)
		if interactive {
			fmt.Print(queryPrompt)
		}
		query, err := readQuery(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		if interactive {
			// the query is echoed back by submitConnection
			terminal.ClearPreviousLines(queryPrompt + query + "\n")
		}
		return submitConnection(connection.ModeQuery, query)
	},
}

func submitConnection(mode connection.Mode, query string) error {
	data, err := connection.Submit(mode, query)
	if err != nil {
		if errors.Is(err, connection.ErrEmptyQuery) {
			fmt.Println("⚠️  Please enter a query before submitting.")
		}
		return err
	}
	store, err := connection.DefaultStore()
	if err != nil {
		return err
	}
	if err := store.Save(data); err != nil {
		return fmt.Errorf("save connection: %w", err)
	}
	switch mode {
	case connection.ModeCatalog:
		fmt.Println("✅ Connected to the dataset catalog")
	case connection.ModeQuery:
		fmt.Println("✅ Connected to query:")
		fmt.Printf("   %s\n", data.Query)
	}
	return nil
}

func readQuery(stdin io.Reader, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case queryFile != "":
		b, err := os.ReadFile(queryFile)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var lines []string
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func init() {
	connectQueryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read the query from a file")
	connectCmd.AddCommand(connectCatalogCmd, connectQueryCmd)
	rootCmd.AddCommand(connectCmd)
}
