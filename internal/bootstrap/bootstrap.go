// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bootstrap wires the adapter into a host runtime.
//
// Setup registers a Connector whose schema and data callbacks run the schema
// and row translators over the backend selected from the host's connection
// data. Init completes a pending login when the page URL carries an
// authorization code.
package bootstrap

import (
	"context"
	"net/url"
	"sync"

	"github.com/pterm/pterm"

	"discoverybridge/cli/internal/auth"
	"discoverybridge/cli/internal/backend"
	"discoverybridge/cli/internal/connection"
	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/logging"
	"discoverybridge/cli/internal/router"
	"discoverybridge/cli/internal/rows"
	"discoverybridge/cli/internal/schema"
)

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

// Alert implements Alerter.
func (f AlertFunc) Alert(msg string) { f(msg) }

// Deps are the collaborators of a Connector.
type Deps struct {
	Session *auth.Session
	API     backend.API
	Alerter Alerter

	// DatasetLimit is the catalog search limit. Zero uses the router default.
	DatasetLimit int
	// Concurrency bounds the dictionary fan-out. Zero uses the schema default.
	Concurrency int

	Logger *pterm.Logger
}

// Connector implements host.Connector.
type Connector struct {
	rt   host.Runtime
	deps Deps
	log  *pterm.Logger

	once    sync.Once
	backend router.Backend
	initErr error
}

var _ host.Connector = (*Connector)(nil)

// Setup creates the connector and registers it with rt.
func Setup(rt host.Runtime, deps Deps) *Connector {
	if deps.Alerter == nil {
		deps.Alerter = AlertFunc(func(string) {})
	}
	c := &Connector{rt: rt, deps: deps, log: logging.OrDiscard(deps.Logger)}
	rt.Register(c)
	return c
}

// Init implements host.Connector. A code exchange failure is reported through
// the Alerter; done is called either way.
func (c *Connector) Init(ctx context.Context, done func()) {
	defer done()

	code := codeParam(c.rt.CurrentURL())
	if code == "" {
		return
	}
	c.log.Debug("authorization code present, exchanging")
	if err := c.deps.Session.ExchangeAuthorizationCode(ctx, code); err != nil {
		c.log.Warn("authorization code exchange failed", c.log.Args("error", err))
		c.deps.Alerter.Alert("Unable to authenticate: " + err.Error())
	}
}

// GetSchema implements host.Connector.
func (c *Connector) GetSchema(ctx context.Context, cb host.SchemaCallback) {
	c.deps.Session.Reset()

	b, err := c.Backend()
	if err != nil {
		c.rt.AbortWithError(err)
		return
	}
	schemas, err := schema.New(b,
		schema.WithConcurrency(c.deps.Concurrency),
		schema.WithLogger(c.log),
	).BuildSchemas(ctx)
	if err != nil {
		c.rt.AbortWithError(err)
		return
	}
	cb(schemas)
}

// GetData implements host.Connector.
func (c *Connector) GetData(ctx context.Context, table *host.Table, done func()) {
	c.deps.Session.Reset()

	b, err := c.Backend()
	if err != nil {
		c.rt.AbortWithError(err)
		return
	}
	data, err := b.FetchData(ctx, table.Info)
	if err != nil {
		c.rt.AbortWithError(err)
		return
	}
	table.AppendRows(rows.TranslateAll(table.Info, data))
	c.log.Debug("rows appended", c.log.Args("table", table.Info.ID, "rows", len(data)))
	done()
}

// Backend returns the backend for the runtime's connection data. It is
// resolved on first use and kept for the life of the connector.
func (c *Connector) Backend() (router.Backend, error) {
	c.once.Do(func() {
		data, err := connection.Decode(c.rt.ConnectionData())
		if err != nil {
			c.initErr = apperrors.Wrap(apperrors.InvalidConnection, "cannot read connection data", err)
			return
		}
		c.backend, c.initErr = router.New(data, c.deps.API, router.WithDatasetLimit(c.deps.DatasetLimit))
	})
	return c.backend, c.initErr
}

// codeParam extracts the code query parameter of raw.
func codeParam(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("code")
}
