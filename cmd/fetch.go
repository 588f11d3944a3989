// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/httperrors"
	"discoverybridge/cli/internal/rows"
)

var (
	fetchFormat string
	fetchOutput string
)

// fetchCmd runs a data pass for one table and writes its rows.
var fetchCmd = &cobra.Command{
	Use:   "fetch <table>",
	Short: "Fetch the rows of one table as JSON or CSV",
	Long: `The fetch command runs a schema pass, then a data pass for the named table, and
writes the rows in schema column order. JSON output is one array per row; CSV output has
a header of column ids, and geometry columns are rendered as WKT.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchFormat != "json" && fetchFormat != "csv" {
			return fmt.Errorf("unknown format %q (want json or csv)", fetchFormat)
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		rt, err := a.runtime(nil)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		schemas, err := loadSchemas(ctx, a, rt)
		if err != nil {
			return err
		}
		table, err := findTable(schemas, args[0])
		if err != nil {
			return httperrors.Present(err, "fetching rows", a.apiHost())
		}

		stop := startInlineSpinner(os.Stderr, "Fetching "+table.ID, spinnerFrames, 120*time.Millisecond)
		data, err := rt.Rows(ctx, table)
		stop()
		if err != nil {
			return httperrors.Present(err, "fetching rows of "+table.ID, a.apiHost())
		}

		var w io.Writer = os.Stdout
		if fetchOutput != "" {
			f, err := os.Create(fetchOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if fetchFormat == "csv" {
			return writeCSV(w, table, data)
		}
		return writeJSONRows(w, table, data)
	},
}

func writeCSV(w io.Writer, table host.TableSchema, data [][]any) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.ID
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range data {
		rec, err := rows.TextRow(table, row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSONRows(w io.Writer, table host.TableSchema, data [][]any) error {
	if data == nil {
		data = [][]any{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Table host.TableSchema `json:"table"`
		Rows  [][]any          `json:"rows"`
	}{table, data})
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFormat, "format", "json", "Output format: json or csv")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}
