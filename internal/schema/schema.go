// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package schema builds host table schemas from the sources and dictionaries of
// the active backend.
//
// BuildSchemas runs as a fixed pipeline: list sources, drop those without an
// accepted export format, fetch every dictionary concurrently, then merge the
// mapped columns into each skeleton. Results are placed by source index, so the
// output order is the listing order regardless of which fetch finishes first.
package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/ident"
	"discoverybridge/cli/internal/logging"
	"discoverybridge/cli/internal/router"
	"discoverybridge/cli/internal/typemap"
)

// AcceptedFormats are the export formats a source must advertise at least one of.
// Membership is case-sensitive.
var AcceptedFormats = []string{"CSV", "GEOJSON"}

// DefaultConcurrency bounds the dictionary fan-out.
const DefaultConcurrency = 8

// Translator turns backend sources into host table schemas.
type Translator struct {
	backend     router.Backend
	concurrency int
	log         *pterm.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithConcurrency bounds the number of dictionary fetches in flight.
func WithConcurrency(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithLogger sets the translator logger.
func WithLogger(l *pterm.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// New creates a Translator over b.
func New(b router.Backend, opts ...Option) *Translator {
	t := &Translator{backend: b, concurrency: DefaultConcurrency}
	for _, o := range opts {
		o(t)
	}
	t.log = logging.OrDiscard(t.log)
	return t
}

// BuildSchemas lists, filters and describes every source. Any dictionary
// failure aborts the call and no schemas are returned.
func (t *Translator) BuildSchemas(ctx context.Context) ([]host.TableSchema, error) {
	sources, err := t.backend.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	kept := Filter(sources)
	if dropped := len(sources) - len(kept); dropped > 0 {
		t.log.Debug("dropped sources without an accepted format",
			t.log.Args("dropped", dropped, "kept", len(kept), "accepted", strings.Join(AcceptedFormats, ",")))
	}

	out := make([]host.TableSchema, len(kept))
	for i, src := range kept {
		out[i] = t.backend.SchemaSkeleton(src)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, src := range kept {
		g.Go(func() error {
			entries, err := t.backend.FetchDictionary(gctx, src)
			if err != nil {
				return fmt.Errorf("dictionary for %s: %w", out[i].ID, err)
			}
			out[i].Columns = Columns(entries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.log.Debug("schemas built", t.log.Args("mode", string(t.backend.Mode()), "tables", len(out)))
	return out, nil
}

// Accepts reports whether formats contains an accepted export format.
func Accepts(formats []string) bool {
	for _, f := range AcceptedFormats {
		if slices.Contains(formats, f) {
			return true
		}
	}
	return false
}

// Filter keeps the sources that advertise an accepted format, in order.
func Filter(sources []router.Source) []router.Source {
	out := make([]router.Source, 0, len(sources))
	for _, s := range sources {
		if Accepts(s.Formats) {
			out = append(out, s)
		}
	}
	return out
}

// Columns maps dictionary entries to host columns, preserving order.
// Unknown remote types produce columns with no data type.
func Columns(entries []backend.DictionaryEntry) []host.Column {
	cols := make([]host.Column, 0, len(entries))
	for _, e := range entries {
		lower := strings.ToLower(e.Name)
		cols = append(cols, host.Column{
			ID:          ident.Sanitize(e.Name),
			Alias:       lower,
			Description: lower,
			DataType:    typemap.Map(e.Type),
		})
	}
	return cols
}
