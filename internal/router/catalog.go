// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"context"

	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/connection"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/ident"
)

// Catalog browses the pre-defined datasets of the Discovery catalog.
type Catalog struct {
	api   backend.API
	limit int
	reg   *registry
}

// NewCatalog creates the catalog backend.
func NewCatalog(api backend.API, limit int) *Catalog {
	if limit <= 0 {
		limit = DefaultDatasetLimit
	}
	return &Catalog{api: api, limit: limit, reg: newRegistry()}
}

// Mode implements Backend.
func (c *Catalog) Mode() connection.Mode { return connection.ModeCatalog }

// ListSources implements Backend.
func (c *Catalog) ListSources(ctx context.Context) ([]Source, error) {
	datasets, err := c.api.SearchDatasets(ctx, c.limit)
	if err != nil {
		return nil, err
	}
	out := make([]Source, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, Source{ID: d.ID, Title: d.Title, Formats: d.FileTypes})
	}
	return out, nil
}

// FetchDictionary implements Backend.
func (c *Catalog) FetchDictionary(ctx context.Context, src Source) ([]backend.DictionaryEntry, error) {
	return c.api.DatasetDictionary(ctx, src.ID)
}

// FetchData implements Backend. The description holds the dataset id and
// wins; the registry only resolves tables whose description was dropped.
func (c *Catalog) FetchData(ctx context.Context, table host.TableSchema) ([]backend.Row, error) {
	id := table.Description
	if id == "" {
		if d, ok := c.reg.get(table.ID); ok {
			id = d.DatasetID
		}
	}
	return c.api.DatasetRows(ctx, id)
}

// SchemaSkeleton implements Backend. Dataset ids that sanitize to the same
// table id are told apart with a numeric suffix in first-seen order.
func (c *Catalog) SchemaSkeleton(src Source) host.TableSchema {
	return host.TableSchema{
		ID:          c.reg.claim(ident.Sanitize(src.ID), src.ID),
		Alias:       src.Title,
		Description: src.ID,
	}
}
