// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package connection

import (
	"errors"
	"testing"
)

func TestSubmit(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		query   string
		want    Data
		wantErr error
	}{
		{
			name:  "catalog drops query",
			mode:  ModeCatalog,
			query: "SELECT 1",
			want:  Data{Mode: ModeCatalog},
		},
		{
			name:  "query kept verbatim",
			mode:  ModeQuery,
			query: " SELECT * FROM cota ",
			want:  Data{Mode: ModeQuery, Query: " SELECT * FROM cota "},
		},
		{
			name:    "empty query rejected",
			mode:    ModeQuery,
			query:   "   ",
			wantErr: ErrEmptyQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Submit(tt.mode, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Submit() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := Submit("bogus", ""); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestEncodeDecode(t *testing.T) {
	encoded, err := Encode(Data{Mode: ModeQuery, Query: "SELECT 1"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"mode":"query","query":"SELECT 1"}`; encoded != want {
		t.Errorf("Encode() = %s, want %s", encoded, want)
	}

	got, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != ModeQuery || got.Query != "SELECT 1" {
		t.Errorf("Decode() = %+v", got)
	}

	if _, err := Decode(""); !errors.Is(err, ErrNoConnection) {
		t.Errorf("Decode(\"\") error = %v, want ErrNoConnection", err)
	}
	if _, err := Decode(`{"mode":"stream"}`); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestDecodeNormalizesMode(t *testing.T) {
	got, err := Decode(`{"mode":" Catalog "}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != ModeCatalog {
		t.Errorf("Decode() mode = %q, want %q", got.Mode, ModeCatalog)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	raw, err := s.Load()
	if err != nil || raw != "" {
		t.Fatalf("Load() on empty store = (%q, %v)", raw, err)
	}

	if err := s.Save(Data{Mode: ModeCatalog}); err != nil {
		t.Fatal(err)
	}
	raw, err = s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if raw != `{"mode":"catalog"}` {
		t.Errorf("Load() = %s", raw)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() should be a no-op, got %v", err)
	}
}
