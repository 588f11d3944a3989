// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"testing"
)

func TestFailMasksMessageAndKeepsCause(t *testing.T) {
	cause := errors.New("dial postgres://etl:hunter2@db:5432/geo: connection refused")
	err := Fail("connect to export database", cause)

	want := "could not connect to export database: dial postgres://*:*@db:5432/geo: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("Fail() lost the underlying error")
	}
	var f *Failure
	if !errors.As(err, &f) || f.Action != "connect to export database" {
		t.Errorf("errors.As() = %+v", f)
	}
}

func TestFailNil(t *testing.T) {
	if err := Fail("export trees", nil); err != nil {
		t.Errorf("Fail(nil) = %v", err)
	}
}
