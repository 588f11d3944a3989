// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"fmt"
	"sync"
)

// FetchDescriptor records what a later data fetch needs for one table.
// Exactly one field is set, depending on the mode.
type FetchDescriptor struct {
	DatasetID string
	Query     string
}

// registry maps table ids to fetch descriptors.
type registry struct {
	mu sync.RWMutex
	m  map[string]FetchDescriptor
}

func newRegistry() *registry {
	return &registry{m: make(map[string]FetchDescriptor)}
}

func (r *registry) put(tableID string, d FetchDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[tableID] = d
}

// claim returns a table id for datasetID derived from base. A base already
// held by another dataset gets the first free "_2", "_3", ... suffix; a
// dataset keeps the id it claimed earlier.
func (r *registry) claim(base, datasetID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := base
	for n := 2; ; n++ {
		d, taken := r.m[id]
		if !taken || d.DatasetID == datasetID {
			r.m[id] = FetchDescriptor{DatasetID: datasetID}
			return id
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func (r *registry) get(tableID string) (FetchDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.m[tableID]
	return d, ok
}
