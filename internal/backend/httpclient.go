// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "discoverybridge/cli/internal/errors"
)

// HTTP implements API over the Discovery REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://discovery.example.com")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints Endpoints
	// doer sends requests, attaching authentication where available
	doer Doer
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
func newHTTP(baseURL string, endpoints Endpoints, doer Doer) *HTTP {
	if doer == nil {
		doer = Plain(nil)
	}
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		doer:      doer,
	}
}

// SearchDatasets calls GET /api/v1/dataset/search.
func (h *HTTP) SearchDatasets(ctx context.Context, limit int) ([]Dataset, error) {
	var out searchResponse
	if err := h.do(ctx, http.MethodGet, h.endpoints.searchURL(h.baseURL, limit), "", &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// DatasetDictionary calls GET /api/v1/dataset/{id}/dictionary.
func (h *HTTP) DatasetDictionary(ctx context.Context, datasetID string) ([]DictionaryEntry, error) {
	var out []DictionaryEntry
	u := datasetURL(h.baseURL, h.endpoints.Dictionary, datasetID)
	if err := h.do(ctx, http.MethodGet, u, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DatasetRows calls GET /api/v1/dataset/{id}/query?_format=json.
func (h *HTTP) DatasetRows(ctx context.Context, datasetID string) ([]Row, error) {
	var out []Row
	u := jsonFormat(datasetURL(h.baseURL, h.endpoints.Rows, datasetID))
	if err := h.do(ctx, http.MethodGet, u, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DescribeQuery calls POST /api/v1/query/describe?_format=json with the raw query as body.
func (h *HTTP) DescribeQuery(ctx context.Context, query string) ([]DictionaryEntry, error) {
	var out []DictionaryEntry
	if err := h.do(ctx, http.MethodPost, jsonFormat(h.baseURL+h.endpoints.Describe), query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunQuery calls POST /api/v1/query?_format=json with the raw query as body.
func (h *HTTP) RunQuery(ctx context.Context, query string) ([]Row, error) {
	var out []Row
	if err := h.do(ctx, http.MethodPost, jsonFormat(h.baseURL+h.endpoints.Query), query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do sends one request and decodes a JSON response into out.
// Any non-2xx status is a RequestFailed; the body is not read.
func (h *HTTP) do(ctx context.Context, method, url, body string, out any) error {
	var rd io.Reader
	if method == http.MethodPost {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	if rd != nil {
		req.Header.Set("Content-Type", "text/plain")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewRequestFailed(resp.StatusCode, statusText(resp))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, req.URL.Path, err)
	}
	return nil
}

// statusText strips the numeric code from a response status line.
func statusText(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
}
