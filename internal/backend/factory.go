// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
)

// Doer sends a request. auth.Session implements it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Do implements Doer.
func (f DoerFunc) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

// Plain returns a Doer sending requests through c without authentication.
func Plain(c *http.Client) Doer {
	if c == nil {
		c = http.DefaultClient
	}
	return DoerFunc(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return c.Do(req.WithContext(ctx))
	})
}

// New creates a backend API implementation for the given base URL.
func New(baseURL string, doer Doer) API {
	return newHTTP(baseURL, DefaultEndpoints(), doer)
}

// NewWithEndpoints is New with explicit endpoint paths.
func NewWithEndpoints(baseURL string, endpoints Endpoints, doer Doer) API {
	return newHTTP(baseURL, endpoints, doer)
}
