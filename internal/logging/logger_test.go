package logging

import (
	"testing"

	"github.com/pterm/pterm"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]pterm.LogLevel{
		"debug":   pterm.LogLevelDebug,
		" WARN ":  pterm.LogLevelWarn,
		"error":   pterm.LogLevelError,
		"off":     pterm.LogLevelDisabled,
		"":        pterm.LogLevelInfo,
		"verbose": pterm.LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	l := New("debug")
	if OrDiscard(l) != l {
		t.Error("OrDiscard should return the given logger")
	}
}
