// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/httperrors"
)

var (
	schemaJSON    bool
	schemaColumns bool
)

// schemaCmd runs one schema pass and prints the resulting tables.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the tables of the current connection",
	Long: `The schema command runs a schema pass against the Discovery API for the stored
connection and lists the resulting tables. In catalog mode every API-accessible CSV or
GeoJSON dataset is one table; in query mode the single table is "query".

Columns whose remote type has no mapping are shown with type "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rt, err := a.runtime(nil)
		if err != nil {
			return err
		}
		schemas, err := loadSchemas(cmd.Context(), a, rt)
		if err != nil {
			return err
		}

		if schemaJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(schemas)
		}
		if len(schemas) == 0 {
			pterm.Info.Println("No tables. In catalog mode only CSV and GeoJSON datasets are exposed.")
			return nil
		}
		if schemaColumns {
			for _, s := range schemas {
				printColumns(s)
			}
			return nil
		}

		data := pterm.TableData{{"ID", "Alias", "Columns", "Description"}}
		for _, s := range schemas {
			data = append(data, []string{s.ID, s.Alias, strconv.Itoa(len(s.Columns)), truncateText(s.Description, 60)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func printColumns(s host.TableSchema) {
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprintf("%s (%s)", s.ID, s.Alias))
	items := make([]pterm.BulletListItem, 0, len(s.Columns))
	for _, c := range s.Columns {
		dt := string(c.DataType)
		if c.DataType == host.Unmapped {
			dt = "-"
		}
		items = append(items, pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("%s  %s", c.ID, dt)})
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
}

// loadSchemas runs a schema pass with a spinner and presents failures.
func loadSchemas(ctx context.Context, a *app, rt *host.Local) ([]host.TableSchema, error) {
	stop := startInlineSpinner(os.Stderr, "Loading schemas", spinnerFrames, 120*time.Millisecond)
	schemas, err := rt.Schemas(ctx)
	stop()
	if err != nil {
		return nil, httperrors.Present(err, "loading schemas", a.apiHost())
	}
	return schemas, nil
}

// findTable returns the schema with the given id.
func findTable(schemas []host.TableSchema, id string) (host.TableSchema, error) {
	for _, s := range schemas {
		if s.ID == id {
			return s, nil
		}
	}
	return host.TableSchema{}, apperrors.New(apperrors.TableNotFound, "no table "+strconv.Quote(id)+" in the current schema")
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "Print schemas as JSON")
	schemaCmd.Flags().BoolVar(&schemaColumns, "columns", false, "List the columns of every table")
	rootCmd.AddCommand(schemaCmd)
}
