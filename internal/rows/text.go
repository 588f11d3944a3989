// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rows

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"discoverybridge/cli/internal/host"
)

// GeometryWKT renders a GeoJSON geometry object as WKT. Strings are assumed to
// be WKT already and pass through; nil renders as "".
func GeometryWKT(v any) (string, error) {
	switch g := v.(type) {
	case nil:
		return "", nil
	case string:
		return g, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode geometry: %w", err)
	}
	geom, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return "", fmt.Errorf("parse geojson geometry: %w", err)
	}
	return wkt.MarshalString(geom.Geometry()), nil
}

// Text renders one cell for text sinks such as CSV.
func Text(dt host.DataType, v any) (string, error) {
	if dt == host.Geometry {
		return GeometryWKT(v)
	}
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// TextRow renders a translated row with Text.
func TextRow(schema host.TableSchema, row []any) ([]string, error) {
	out := make([]string, len(row))
	for i, v := range row {
		var dt host.DataType
		if i < len(schema.Columns) {
			dt = schema.Columns[i].DataType
		}
		s, err := Text(dt, v)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
