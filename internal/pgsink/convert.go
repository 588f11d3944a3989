// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgsink

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/rows"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ConvertRows converts translated host rows into values pgx can encode for
// the column types chosen by ColumnType.
func ConvertRows(schema host.TableSchema, in [][]any) ([][]any, error) {
	out := make([][]any, len(in))
	for r, row := range in {
		conv := make([]any, len(schema.Columns))
		for i, col := range schema.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			cv, err := ConvertValue(col.DataType, v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r, col.ID, err)
			}
			conv[i] = cv
		}
		out[r] = conv
	}
	return out, nil
}

// ConvertValue converts one cell. nil stays nil for every type.
func ConvertValue(dt host.DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch dt {
	case host.Int:
		return toInt(v)
	case host.Float:
		return toFloat(v)
	case host.Bool:
		return toBool(v)
	case host.Date, host.DateTime:
		return toTime(v)
	default:
		// geometry renders as WKT, everything else as text
		return rows.Text(dt, v)
	}
}

func toInt(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil || f != float64(int64(f)) {
			return nil, fmt.Errorf("not an integer: %s", x)
		}
		return int64(f), nil
	case float64:
		if x != float64(int64(x)) {
			return nil, fmt.Errorf("not an integer: %v", x)
		}
		return int64(x), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", x)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported integer value %T", v)
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Float64()
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", x)
		}
		return f, nil
	}
	return nil, fmt.Errorf("unsupported float value %T", v)
}

func toBool(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", x)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported boolean value %T", v)
}

func toTime(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("unrecognized date %q", x)
	}
	return nil, fmt.Errorf("unsupported date value %T", v)
}
