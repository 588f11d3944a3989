// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"context"
	"testing"

	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/backend/backendtest"
	"discoverybridge/cli/internal/connection"
	"discoverybridge/cli/internal/host"
)

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		data    connection.Data
		want    connection.Mode
		wantErr bool
	}{
		{"catalog", connection.Data{Mode: connection.ModeCatalog}, connection.ModeCatalog, false},
		{"query", connection.Data{Mode: connection.ModeQuery, Query: "SELECT 1"}, connection.ModeQuery, false},
		{"unknown", connection.Data{Mode: "xml"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.data, &backendtest.Fake{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && b.Mode() != tt.want {
				t.Errorf("Mode() = %s, want %s", b.Mode(), tt.want)
			}
		})
	}
}

func TestCatalogListSourcesUsesLimit(t *testing.T) {
	fake := &backendtest.Fake{Datasets: []backend.Dataset{
		{ID: "a", Title: "A", FileTypes: []string{"CSV"}},
	}}
	b, _ := New(connection.Data{Mode: connection.ModeCatalog}, fake, WithDatasetLimit(25))

	got, err := b.ListSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "a" || got[0].Title != "A" || got[0].Formats[0] != "CSV" {
		t.Errorf("ListSources() = %+v", got)
	}
	if calls := fake.Calls(); calls[0] != "search limit=25" {
		t.Errorf("calls = %v", calls)
	}
}

func TestCatalogSkeletonAndFetch(t *testing.T) {
	fake := &backendtest.Fake{Rows: map[string][]backend.Row{"Bus Stops-2019": {{"x": 1}}}}
	c := NewCatalog(fake, 0)

	ts := c.SchemaSkeleton(Source{ID: "Bus Stops-2019", Title: "Bus Stops"})
	want := host.TableSchema{ID: "bus_stops_2019", Alias: "Bus Stops", Description: "Bus Stops-2019"}
	if ts.ID != want.ID || ts.Alias != want.Alias || ts.Description != want.Description {
		t.Errorf("SchemaSkeleton() = %+v, want %+v", ts, want)
	}

	rows, err := c.FetchData(context.Background(), ts)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %v", rows)
	}
	if calls := fake.Calls(); calls[0] != "rows Bus Stops-2019" {
		t.Errorf("calls = %v", calls)
	}
}

func TestCatalogFetchFallsBackToDescription(t *testing.T) {
	fake := &backendtest.Fake{Rows: map[string][]backend.Row{"orig-id": {}}}
	c := NewCatalog(fake, 0)

	// A table built by an earlier process is not in the registry.
	_, err := c.FetchData(context.Background(), host.TableSchema{ID: "orig_id", Description: "orig-id"})
	if err != nil {
		t.Fatal(err)
	}
	if calls := fake.Calls(); calls[0] != "rows orig-id" {
		t.Errorf("calls = %v", calls)
	}
}

func TestCatalogCollidingIDsFetchOwnDataset(t *testing.T) {
	fake := &backendtest.Fake{Rows: map[string][]backend.Row{
		"bus-stops": {{"src": "hyphen"}},
		"bus_stops": {{"src": "underscore"}},
	}}
	c := NewCatalog(fake, 0)

	first := c.SchemaSkeleton(Source{ID: "bus-stops"})
	second := c.SchemaSkeleton(Source{ID: "bus_stops"})
	if first.ID != "bus_stops" || second.ID != "bus_stops_2" {
		t.Fatalf("ids = %q, %q", first.ID, second.ID)
	}
	// A second schema pass keeps the ids stable.
	if again := c.SchemaSkeleton(Source{ID: "bus_stops"}); again.ID != second.ID {
		t.Errorf("repeat id = %q, want %q", again.ID, second.ID)
	}

	for _, tc := range []struct {
		table host.TableSchema
		want  string
	}{
		{first, "hyphen"},
		{second, "underscore"},
		{host.TableSchema{ID: "bus_stops_2"}, "underscore"},
	} {
		rows, err := c.FetchData(context.Background(), tc.table)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0]["src"] != tc.want {
			t.Errorf("FetchData(%+v) = %v, want src=%s", tc.table, rows, tc.want)
		}
	}
	calls := fake.Calls()
	if calls[0] != "rows bus-stops" || calls[1] != "rows bus_stops" {
		t.Errorf("calls = %v", calls)
	}
}

func TestQueryBackend(t *testing.T) {
	fake := &backendtest.Fake{}
	q := NewQuery(fake, "SELECT 1")

	srcs, err := q.ListSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 1 || srcs[0].Query != "SELECT 1" || srcs[0].Formats[0] != "CSV" {
		t.Fatalf("ListSources() = %+v", srcs)
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("ListSources called the network: %v", fake.Calls())
	}

	ts := q.SchemaSkeleton(srcs[0])
	if ts.ID != "query" || ts.Alias != "query" || ts.Description != "SELECT 1" {
		t.Errorf("SchemaSkeleton() = %+v", ts)
	}

	if _, err := q.FetchDictionary(context.Background(), srcs[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := q.FetchData(context.Background(), ts); err != nil {
		t.Fatal(err)
	}
	calls := fake.Calls()
	if len(calls) != 2 || calls[0] != "describe SELECT 1" || calls[1] != "query SELECT 1" {
		t.Errorf("calls = %v", calls)
	}
}

func TestQueryFetchFallsBackToStoredQuery(t *testing.T) {
	fake := &backendtest.Fake{}
	q := NewQuery(fake, "SELECT 2")

	if _, err := q.FetchData(context.Background(), host.TableSchema{ID: "query", Description: "ignored"}); err != nil {
		t.Fatal(err)
	}
	if calls := fake.Calls(); calls[0] != "query SELECT 2" {
		t.Errorf("calls = %v", calls)
	}
}
