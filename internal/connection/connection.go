// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package connection models the connection state the host stores for the adapter:
// which mode was submitted and, for query mode, the literal query text.
//
// The state is submitted once and read back verbatim on every later schema and
// data call. The local host keeps it as JSON in the XDG config directory.
package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Mode selects which backend serves schema and data calls.
type Mode string

const (
	// ModeCatalog exposes the browsable dataset catalog.
	ModeCatalog Mode = "catalog"
	// ModeQuery exposes one ad-hoc query as a single table.
	ModeQuery Mode = "query"
)

var (
	// ErrEmptyQuery is returned when query mode is submitted without a query.
	ErrEmptyQuery = errors.New("query mode requires a query")
	// ErrNoConnection is returned when no connection data has been submitted.
	ErrNoConnection = errors.New("no connection submitted")
)

// Data is the serialized connection state.
type Data struct {
	Mode  Mode   `json:"mode"`
	Query string `json:"query,omitempty"`
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCatalog, ModeQuery:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeCatalog, ModeQuery)
	}
}

// Submit builds the connection state for a mode. The query is only kept in
// query mode and is stored exactly as given.
func Submit(mode Mode, query string) (Data, error) {
	switch mode {
	case ModeCatalog:
		return Data{Mode: ModeCatalog}, nil
	case ModeQuery:
		if strings.TrimSpace(query) == "" {
			return Data{}, ErrEmptyQuery
		}
		return Data{Mode: ModeQuery, Query: query}, nil
	default:
		return Data{}, fmt.Errorf("unknown mode %q", mode)
	}
}

// Encode serializes connection state for the host.
func Encode(d Data) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses host-stored connection state.
func Decode(s string) (Data, error) {
	if strings.TrimSpace(s) == "" {
		return Data{}, ErrNoConnection
	}
	var d Data
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return Data{}, fmt.Errorf("decode connection data: %w", err)
	}
	m, err := ParseMode(string(d.Mode))
	if err != nil {
		return Data{}, err
	}
	d.Mode = m
	return d, nil
}
