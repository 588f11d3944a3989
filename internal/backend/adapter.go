// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the Discovery REST data API.
// It defines the API contract for dataset search, dataset dictionaries and rows,
// and ad-hoc query description and execution. Authentication is supplied by the
// Doer the client is built on; the client itself never sees tokens.
package backend

import "context"

// API defines the Discovery operations the adapter depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// SearchDatasets lists API-accessible datasets, at most limit of them.
	SearchDatasets(ctx context.Context, limit int) ([]Dataset, error)
	// DatasetDictionary returns the column dictionary of a dataset.
	DatasetDictionary(ctx context.Context, datasetID string) ([]DictionaryEntry, error)
	// DatasetRows returns every row of a dataset as JSON objects.
	DatasetRows(ctx context.Context, datasetID string) ([]Row, error)
	// DescribeQuery returns the column dictionary a query would produce.
	DescribeQuery(ctx context.Context, query string) ([]DictionaryEntry, error)
	// RunQuery executes a query and returns its rows as JSON objects.
	RunQuery(ctx context.Context, query string) ([]Row, error)
}

// Dataset is one search result.
type Dataset struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	FileTypes []string `json:"fileTypes"`
}

// DictionaryEntry describes one remote column.
type DictionaryEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Row is one remote record keyed by column name.
type Row map[string]any

// searchResponse is the body of the dataset search endpoint.
type searchResponse struct {
	Results []Dataset `json:"results"`
}
