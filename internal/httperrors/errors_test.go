// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	apperrors "discoverybridge/cli/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"auth exchange", apperrors.NewAuthExchangeFailed("refresh_token", 403, ""), SignInRejected},
		{"unauthorized", apperrors.NewRequestFailed(401, ""), Unauthorized},
		{"not found wrapped", fmt.Errorf("dictionary for x: %w", apperrors.NewRequestFailed(404, "")), NotFound},
		{"server", apperrors.NewRequestFailed(503, ""), ServerError},
		{"bad request", apperrors.NewRequestFailed(400, ""), Generic},
		{"not logged in", apperrors.New(apperrors.NotLoggedIn, "no credential"), NotLoggedIn},
		{"invalid connection", apperrors.Wrap(apperrors.InvalidConnection, "x", errors.New("y")), InvalidConnection},
		{"deadline", &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}, Timeout},
		{"dns", &url.Error{Op: "Get", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}}, DNS},
		{"refused", &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, ConnectionRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), TLS},
		{"other", errors.New("boom"), Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPresentWraps(t *testing.T) {
	base := apperrors.NewRequestFailed(500, "")
	err := Present(base, "fetching schemas", "localhost:4000")

	var rf *apperrors.RequestFailed
	if !errors.As(err, &rf) || rf.Status != 500 {
		t.Errorf("Present() = %v, want wrapped RequestFailed", err)
	}
	if Present(nil, "x", "") != nil {
		t.Error("Present(nil) != nil")
	}
}

func TestExtractHostFromURL(t *testing.T) {
	if got := ExtractHostFromURL("http://localhost:4000/api"); got != "localhost:4000" {
		t.Errorf("got %s", got)
	}
	if got := ExtractHostFromURL("::bad"); got != "server" {
		t.Errorf("got %s", got)
	}
}
