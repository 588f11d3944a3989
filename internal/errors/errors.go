// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides the request-level errors raised by the Discovery API client and the
// identity provider exchanges, plus a Kind/message wrapper used by the CLI to
// categorize failures that are not tied to a single HTTP response.
//
// Request errors carry the HTTP status so callers can inspect them with errors.As
// instead of parsing messages.
package errors

import (
	"fmt"
	"net/http"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// NotLoggedIn indicates no refresh credential is stored.
	NotLoggedIn Kind = "not_logged_in"
	// InvalidConnection indicates missing or malformed connection data.
	InvalidConnection Kind = "invalid_connection"
	// TableNotFound indicates a requested table id is not in the current schema set.
	TableNotFound Kind = "table_not_found"
	// ExportFailed indicates rows could not be written to an export sink.
	ExportFailed Kind = "export_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// RequestFailed is returned for any non-2xx response from the Discovery API
// or the identity provider.
type RequestFailed struct {
	Status     int
	StatusText string
}

// NewRequestFailed builds a RequestFailed from a response status code.
// An empty statusText is filled from the standard reason phrase.
func NewRequestFailed(status int, statusText string) *RequestFailed {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &RequestFailed{Status: status, StatusText: statusText}
}

func (e *RequestFailed) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.Status, e.StatusText)
}

// AuthExchangeFailed is returned when a token endpoint exchange is rejected.
// Grant is the OAuth grant type that was attempted.
type AuthExchangeFailed struct {
	Grant string
	RequestFailed
}

// NewAuthExchangeFailed builds an AuthExchangeFailed for the given grant.
func NewAuthExchangeFailed(grant string, status int, statusText string) *AuthExchangeFailed {
	return &AuthExchangeFailed{Grant: grant, RequestFailed: *NewRequestFailed(status, statusText)}
}

func (e *AuthExchangeFailed) Error() string {
	return fmt.Sprintf("%s exchange failed: %d %s", e.Grant, e.Status, e.StatusText)
}

// Unwrap exposes the embedded RequestFailed so errors.As matches both types.
func (e *AuthExchangeFailed) Unwrap() error { return &e.RequestFailed }
