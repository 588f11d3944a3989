// Package backendtest provides an in-memory backend.API for tests.
package backendtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"discoverybridge/cli/internal/backend"
	apperrors "discoverybridge/cli/internal/errors"
)

// Fake serves canned responses and records every call.
type Fake struct {
	Datasets     []backend.Dataset
	Dictionaries map[string][]backend.DictionaryEntry
	Rows         map[string][]backend.Row
	// Latency delays the dictionary response of a dataset id.
	Latency map[string]time.Duration
	// FailDictionary makes the dictionary fetch of a dataset id return 500.
	FailDictionary map[string]bool

	QueryDictionary []backend.DictionaryEntry
	QueryRows       []backend.Row

	mu    sync.Mutex
	calls []string
}

var _ backend.API = (*Fake)(nil)

func (f *Fake) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded calls in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// SearchDatasets implements backend.API.
func (f *Fake) SearchDatasets(_ context.Context, limit int) ([]backend.Dataset, error) {
	f.record("search limit=%d", limit)
	return f.Datasets, nil
}

// DatasetDictionary implements backend.API.
func (f *Fake) DatasetDictionary(ctx context.Context, id string) ([]backend.DictionaryEntry, error) {
	f.record("dictionary %s", id)
	if d := f.Latency[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.FailDictionary[id] {
		return nil, apperrors.NewRequestFailed(500, "")
	}
	return f.Dictionaries[id], nil
}

// DatasetRows implements backend.API.
func (f *Fake) DatasetRows(_ context.Context, id string) ([]backend.Row, error) {
	f.record("rows %s", id)
	rows, ok := f.Rows[id]
	if !ok {
		return nil, apperrors.NewRequestFailed(404, "")
	}
	return rows, nil
}

// DescribeQuery implements backend.API.
func (f *Fake) DescribeQuery(_ context.Context, query string) ([]backend.DictionaryEntry, error) {
	f.record("describe %s", query)
	return f.QueryDictionary, nil
}

// RunQuery implements backend.API.
func (f *Fake) RunQuery(_ context.Context, query string) ([]backend.Row, error) {
	f.record("query %s", query)
	return f.QueryRows, nil
}
