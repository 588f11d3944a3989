// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rows reshapes remote records into the host's positional row arrays.
package rows

import (
	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/host"
)

// geometryField is the key holding the geometry inside a geometry-typed value.
const geometryField = "geometry"

// Translate returns row as a positional array in the schema's column order.
// Values are looked up by column description; geometry columns yield the
// nested geometry field of their value. Missing keys yield nil.
func Translate(schema host.TableSchema, row backend.Row) []any {
	out := make([]any, len(schema.Columns))
	for i, col := range schema.Columns {
		v := row[col.Description]
		if col.DataType == host.Geometry {
			v = unwrapGeometry(v)
		}
		out[i] = v
	}
	return out
}

// TranslateAll translates every row.
func TranslateAll(schema host.TableSchema, rs []backend.Row) [][]any {
	out := make([][]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, Translate(schema, r))
	}
	return out
}

func unwrapGeometry(v any) any {
	switch m := v.(type) {
	case map[string]any:
		return m[geometryField]
	case backend.Row:
		return m[geometryField]
	default:
		return nil
	}
}
