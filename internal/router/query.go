// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"context"

	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/connection"
	"discoverybridge/cli/internal/host"
)

// QueryTableID is the id and alias of the single query-mode table.
const QueryTableID = "query"

// Query exposes one ad-hoc query as a virtual table.
type Query struct {
	api   backend.API
	query string
	reg   *registry
}

// NewQuery creates the query backend for the stored query text.
func NewQuery(api backend.API, query string) *Query {
	return &Query{api: api, query: query, reg: newRegistry()}
}

// Mode implements Backend.
func (q *Query) Mode() connection.Mode { return connection.ModeQuery }

// ListSources implements Backend. It never touches the network.
func (q *Query) ListSources(context.Context) ([]Source, error) {
	return []Source{{Formats: []string{"CSV"}, Query: q.query}}, nil
}

// FetchDictionary implements Backend.
func (q *Query) FetchDictionary(ctx context.Context, src Source) ([]backend.DictionaryEntry, error) {
	return q.api.DescribeQuery(ctx, src.Query)
}

// FetchData implements Backend. Without a recorded descriptor the stored
// connection query is run.
func (q *Query) FetchData(ctx context.Context, table host.TableSchema) ([]backend.Row, error) {
	query := q.query
	if d, ok := q.reg.get(table.ID); ok {
		query = d.Query
	}
	return q.api.RunQuery(ctx, query)
}

// SchemaSkeleton implements Backend.
func (q *Query) SchemaSkeleton(src Source) host.TableSchema {
	ts := host.TableSchema{
		ID:          QueryTableID,
		Alias:       QueryTableID,
		Description: src.Query,
	}
	q.reg.put(ts.ID, FetchDescriptor{Query: src.Query})
	return ts
}
