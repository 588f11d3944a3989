// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package host

import (
	"context"
	"errors"
	"sync"
)

// ErrNoConnector is returned when Local is driven before a connector registered.
var ErrNoConnector = errors.New("no connector registered")

// Local is an in-process Runtime. Calls are serialized: the host runs one
// connector method at a time and AbortWithError applies to the invocation
// that method belongs to.
type Local struct {
	connectionData string

	mu         sync.Mutex
	currentURL string
	connector  Connector
	current    *invocation

	callMu sync.Mutex
}

// invocation tracks one outstanding host callback.
type invocation struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newInvocation() *invocation {
	return &invocation{done: make(chan struct{})}
}

func (i *invocation) finish(err error) {
	i.once.Do(func() {
		i.err = err
		close(i.done)
	})
}

// NewLocal creates a runtime holding the given serialized connection data.
func NewLocal(connectionData string) *Local {
	return &Local{connectionData: connectionData}
}

// Register implements Runtime.
func (l *Local) Register(c Connector) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connector = c
}

// AbortWithError implements Runtime.
func (l *Local) AbortWithError(err error) {
	l.mu.Lock()
	cur := l.current
	l.mu.Unlock()
	if cur != nil {
		if err == nil {
			err = errors.New("connector aborted")
		}
		cur.finish(err)
	}
}

// ConnectionData implements Runtime.
func (l *Local) ConnectionData() string { return l.connectionData }

// CurrentURL implements Runtime.
func (l *Local) CurrentURL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentURL
}

// SetCurrentURL records the URL the next Initialize sees.
func (l *Local) SetCurrentURL(u string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currentURL = u
}

// Initialize runs the connector's Init and waits for it to signal completion.
func (l *Local) Initialize(ctx context.Context) error {
	return l.run(ctx, func(c Connector, inv *invocation) {
		c.Init(ctx, func() { inv.finish(nil) })
	})
}

// Schemas runs a schema pass and returns the schemas handed to the callback.
// An aborted pass returns the abort error and no schemas.
func (l *Local) Schemas(ctx context.Context) ([]TableSchema, error) {
	var out []TableSchema
	err := l.run(ctx, func(c Connector, inv *invocation) {
		c.GetSchema(ctx, func(schemas []TableSchema) {
			out = schemas
			inv.finish(nil)
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Rows runs a data pass for one table and returns every appended row.
// An aborted pass returns the abort error and no rows.
func (l *Local) Rows(ctx context.Context, info TableSchema) ([][]any, error) {
	var (
		mu  sync.Mutex
		out [][]any
	)
	err := l.run(ctx, func(c Connector, inv *invocation) {
		table := NewTable(info, func(rows [][]any) {
			mu.Lock()
			out = append(out, rows...)
			mu.Unlock()
		})
		c.GetData(ctx, table, func() { inv.finish(nil) })
	})
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return out, nil
}

// run drives one callback. The caller gets its result as soon as the
// invocation finishes or ctx ends, but the next call only starts once the
// connector method has returned, so a late abort from a cancelled call
// never reaches its successor.
func (l *Local) run(ctx context.Context, call func(Connector, *invocation)) error {
	l.callMu.Lock()

	l.mu.Lock()
	c := l.connector
	inv := newInvocation()
	l.current = inv
	l.mu.Unlock()

	if c == nil {
		l.release(inv)
		return ErrNoConnector
	}

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		call(c, inv)
	}()
	go func() {
		<-returned
		l.release(inv)
	}()

	select {
	case <-inv.done:
		return inv.err
	case <-ctx.Done():
		inv.finish(ctx.Err())
		return ctx.Err()
	}
}

func (l *Local) release(inv *invocation) {
	l.mu.Lock()
	if l.current == inv {
		l.current = nil
	}
	l.mu.Unlock()
	l.callMu.Unlock()
}
