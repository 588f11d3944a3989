// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/host"
)

func TestReadQuery(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "q.sql")
	if err := os.WriteFile(file, []byte("SELECT *\nFROM trees"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{"args joined", []string{"SELECT", "1"}, "", "", "SELECT 1"},
		{"file verbatim", nil, file, "", "SELECT *\nFROM trees"},
		{"stdin until blank line", nil, "", "SELECT a\nFROM b\n\nignored\n", "SELECT a\nFROM b"},
		{"empty stdin", nil, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queryFile = tt.file
			defer func() { queryFile = "" }()
			got, err := readQuery(strings.NewReader(tt.stdin), tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("readQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectTables(t *testing.T) {
	schemas := []host.TableSchema{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	all, err := selectTables(schemas, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("selectTables(nil) = %v, %v", all, err)
	}

	got, err := selectTables(schemas, []string{"c", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("selectTables() = %v", got)
	}

	_, err = selectTables(schemas, []string{"zzz"})
	var e *apperrors.E
	if !errors.As(err, &e) || e.Kind != apperrors.TableNotFound {
		t.Errorf("err = %v, want TableNotFound", err)
	}
}

func TestWriteCSV(t *testing.T) {
	table := host.TableSchema{ID: "t", Columns: []host.Column{
		{ID: "id", DataType: host.Int},
		{ID: "shape", DataType: host.Geometry},
	}}
	data := [][]any{
		{json.Number("1"), map[string]any{"type": "Point", "coordinates": []any{1.5, 2.0}}},
		{json.Number("2"), nil},
	}
	var buf bytes.Buffer
	if err := writeCSV(&buf, table, data); err != nil {
		t.Fatal(err)
	}
	want := "id,shape\n1,POINT(1.5 2)\n2,\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteJSONRowsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSONRows(&buf, host.TableSchema{ID: "t"}, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"rows": []`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncateText("abcdefghij", 5); got != "abcd…" {
		t.Errorf("got %q", got)
	}
}

func TestVersionLine(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "1.2.0", "0123456789abcdef"
	if got := versionLine(); got != "discovery-bridge 1.2.0 (0123456789ab)" {
		t.Errorf("versionLine() = %q", got)
	}
	Commit = "abc123"
	if got := versionLine(); got != "discovery-bridge 1.2.0 (abc123)" {
		t.Errorf("versionLine() short commit = %q", got)
	}
}
