// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package router selects the Discovery backend for a connection mode.
//
// Catalog and query mode expose the same four operations over structurally
// different endpoints. The variant is chosen once by New from the stored
// connection data and never switched afterwards.
package router

import (
	"context"
	"fmt"

	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/connection"
	"discoverybridge/cli/internal/host"
)

// DefaultDatasetLimit is the search page size used in catalog mode.
const DefaultDatasetLimit = 1000000

// Source describes one queryable source before its dictionary is known.
type Source struct {
	ID      string
	Title   string
	Formats []string
	// Query is set for the synthetic query-mode source.
	Query string
}

// Backend is the mode-specific half of the adapter.
type Backend interface {
	Mode() connection.Mode
	// ListSources enumerates the sources of the current mode.
	ListSources(ctx context.Context) ([]Source, error)
	// FetchDictionary returns the remote columns of a source.
	FetchDictionary(ctx context.Context, src Source) ([]backend.DictionaryEntry, error)
	// FetchData returns the rows of a table built by SchemaSkeleton.
	FetchData(ctx context.Context, table host.TableSchema) ([]backend.Row, error)
	// SchemaSkeleton builds the table schema of a source without columns and
	// records how to fetch it later.
	SchemaSkeleton(src Source) host.TableSchema
}

// Option configures New.
type Option func(*options)

type options struct {
	datasetLimit int
}

// WithDatasetLimit sets the catalog search limit.
func WithDatasetLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.datasetLimit = n
		}
	}
}

// New returns the backend for the mode stored in data.
func New(data connection.Data, api backend.API, opts ...Option) (Backend, error) {
	o := options{datasetLimit: DefaultDatasetLimit}
	for _, fn := range opts {
		fn(&o)
	}

	switch data.Mode {
	case connection.ModeCatalog:
		return NewCatalog(api, o.datasetLimit), nil
	case connection.ModeQuery:
		return NewQuery(api, data.Query), nil
	default:
		return nil, fmt.Errorf("unknown connection mode %q", data.Mode)
	}
}
