// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgsink

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"discoverybridge/cli/internal/host"
)

// infoSchemaTypes translates ColumnType results into information_schema.columns.data_type names.
var infoSchemaTypes = map[string]string{
	"timestamptz": "timestamp with time zone",
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// existingColumns returns column name to data_type for schemaName.table.
// A missing table yields an empty map.
func existingColumns(ctx context.Context, q querier, schemaName, table string) (map[string]string, error) {
	rows, err := q.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2`, schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, err
		}
		cols[name] = dataType
	}
	return cols, rows.Err()
}

// checkCompatible reports columns of schema that the existing table lacks or
// stores with a different type. Extra columns in the table are allowed.
func checkCompatible(existing map[string]string, schema host.TableSchema) error {
	var problems []string
	for _, c := range schema.Columns {
		want := expectedInfoType(c.DataType)
		got, ok := existing[c.ID]
		switch {
		case !ok:
			problems = append(problems, c.ID+" missing")
		case got != want:
			problems = append(problems, fmt.Sprintf("%s is %s, want %s", c.ID, got, want))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("table %s does not match its schema: %s", schema.ID, strings.Join(problems, "; "))
}

func expectedInfoType(dt host.DataType) string {
	t := ColumnType(dt)
	if alias, ok := infoSchemaTypes[t]; ok {
		return alias
	}
	return t
}
