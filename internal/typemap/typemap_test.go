package typemap

import (
	"testing"

	"discoverybridge/cli/internal/host"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		remote string
		want   host.DataType
		mapped bool
	}{
		{"integer", host.Int, true},
		{"long", host.Int, true},
		{"string", host.String, true},
		{"decimal", host.Float, true},
		{"double", host.Float, true},
		{"float", host.Float, true},
		{"boolean", host.Bool, true},
		{"date", host.Date, true},
		{"timestamp", host.DateTime, true},
		{"json", host.Geometry, true},
		{"nested", host.String, true},
		{"map", host.Unmapped, false},
		{"Integer", host.Unmapped, false},
		{"", host.Unmapped, false},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			got, ok := Lookup(tt.remote)
			if got != tt.want || ok != tt.mapped {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.remote, got, ok, tt.want, tt.mapped)
			}
			if m := Map(tt.remote); m != tt.want {
				t.Errorf("Map(%q) = %q, want %q", tt.remote, m, tt.want)
			}
		})
	}
}

func TestLookupIsOrderIndependent(t *testing.T) {
	first, _ := Lookup("timestamp")
	for _, name := range []string{"json", "unknown", "long", "timestamp"} {
		Lookup(name)
	}
	again, _ := Lookup("timestamp")
	if first != again {
		t.Errorf("Lookup changed between calls: %q then %q", first, again)
	}
}
