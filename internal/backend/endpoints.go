// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/url"
	"strconv"
	"strings"
)

// Endpoints contains the REST API endpoint paths, relative to the base URL.
// Dataset paths contain a literal "{id}" placeholder.
type Endpoints struct {
	Search     string // e.g., "/api/v1/dataset/search"
	Dictionary string // e.g., "/api/v1/dataset/{id}/dictionary"
	Rows       string // e.g., "/api/v1/dataset/{id}/query"
	Describe   string // e.g., "/api/v1/query/describe"
	Query      string // e.g., "/api/v1/query"
}

// APIPath is the prefix shared by every Discovery endpoint.
const APIPath = "/api/v1/"

// DefaultEndpoints returns the Discovery v1 endpoint layout.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Search:     APIPath + "dataset/search",
		Dictionary: APIPath + "dataset/{id}/dictionary",
		Rows:       APIPath + "dataset/{id}/query",
		Describe:   APIPath + "query/describe",
		Query:      APIPath + "query",
	}
}

// searchURL builds the search URL with its fixed query parameters.
func (e Endpoints) searchURL(base string, limit int) string {
	q := "apiAccessible=true&offset=0&limit=" + strconv.Itoa(limit)
	return base + e.Search + "?" + q
}

// datasetURL substitutes the dataset id into a dataset path.
// The id is path-escaped.
func datasetURL(base, path, id string) string {
	return base + strings.ReplaceAll(path, "{id}", url.PathEscape(id))
}

// jsonFormat appends the _format=json parameter.
func jsonFormat(u string) string {
	return u + "?_format=json"
}
