// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth owns the adapter's authentication session: the host-persisted
// refresh credential, the in-memory access-token cache and the two token endpoint
// exchanges that connect them.
//
// Every outbound API request goes through Session.Do (or Session.Client), which
// attaches "Authorization: Bearer <access token>" whenever a refresh credential is
// stored. The access token is resolved lazily: a cache hit is used as is, a miss
// performs exactly one refresh exchange shared by all concurrent callers. Expiry is
// never inspected; Reset marks the end of a cache lifetime.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	"discoverybridge/cli/internal/logging"
)

// Tokens is the result of an authorization-code exchange.
type Tokens struct {
	Access  string
	Refresh string
}

// TokenExchanger talks to the identity provider's token endpoint.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (Tokens, error)
	ExchangeRefresh(ctx context.Context, refreshToken string) (string, error)
}

// Store persists the refresh credential and display state.
// keychain.Manager implements it.
type Store interface {
	LoadRefreshToken() (string, error)
	SaveRefreshToken(token string) error
	LoadAuthState() ([]byte, error)
	SaveAuthState(data []byte) error
	ClearAuth() error
}

// Session is the authentication context shared by every request of one adapter.
type Session struct {
	exchanger TokenExchanger
	store     Store
	transport http.RoundTripper
	timeout   time.Duration
	log       *pterm.Logger

	mu     sync.Mutex
	access string
	gen    uint64

	inflight singleflight.Group
}

// Option configures a Session.
type Option func(*Session)

// WithTransport sets the transport used for API requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Session) { s.transport = rt }
}

// WithLogger sets the session logger.
func WithLogger(l *pterm.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session. A nil store behaves as a store holding no
// refresh credential, so every request goes out unauthenticated.
func NewSession(ex TokenExchanger, store Store, opts ...Option) *Session {
	s := &Session{exchanger: ex, store: store, transport: http.DefaultTransport}
	for _, o := range opts {
		o(s)
	}
	s.log = logging.OrDiscard(s.log)
	return s
}

// WithTimeout bounds each API request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// Do sends req, attaching the bearer header when a refresh credential exists.
// Resolution failures are returned without sending the request.
func (s *Session) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return s.Client().Do(req.WithContext(ctx))
}

// Client returns an http.Client whose transport authorizes every request.
func (s *Session) Client() *http.Client {
	return &http.Client{Transport: roundTripper{s: s}, Timeout: s.timeout}
}

type roundTripper struct{ s *Session }

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	authed, err := rt.s.authorize(req)
	if err != nil {
		return nil, err
	}
	return rt.s.transport.RoundTrip(authed)
}

// authorize returns a copy of req carrying the bearer header, or req itself
// when no credential is stored.
func (s *Session) authorize(req *http.Request) (*http.Request, error) {
	token, err := s.AccessToken(req.Context())
	if err != nil {
		return nil, err
	}
	if token == "" {
		return req, nil
	}
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+token)
	return out, nil
}

// AccessToken resolves the access token. It returns "" with no error when no
// refresh credential is stored.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	token, gen := s.access, s.gen
	s.mu.Unlock()
	if token != "" {
		return token, nil
	}

	// The exchange outlives any one caller; each caller still stops waiting
	// when its own ctx ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		// A flight for this generation may have finished since the check above.
		s.mu.Lock()
		if s.gen == gen && s.access != "" {
			token := s.access
			s.mu.Unlock()
			return token, nil
		}
		s.mu.Unlock()

		refresh, err := s.refreshToken()
		if err != nil {
			return "", err
		}
		if refresh == "" {
			return "", nil
		}
		s.log.Debug("access token cache miss, exchanging refresh credential")
		access, err := s.exchanger.ExchangeRefresh(flightCtx, refresh)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		if s.gen == gen {
			s.access = access
		}
		s.mu.Unlock()
		return access, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if res.Err != nil {
		return "", res.Err
	}
	if res.Shared {
		s.log.Trace("joined in-flight refresh exchange")
	}
	return res.Val.(string), nil
}

func (s *Session) refreshToken() (string, error) {
	if s.store == nil {
		return "", nil
	}
	rt, err := s.store.LoadRefreshToken()
	if err != nil {
		return "", fmt.Errorf("load refresh credential: %w", err)
	}
	return rt, nil
}

// HasRefreshCredential reports whether a refresh credential is stored.
func (s *Session) HasRefreshCredential() bool {
	rt, err := s.refreshToken()
	return err == nil && rt != ""
}

// ExchangeAuthorizationCode performs the one-time code exchange and stores the
// returned refresh credential. Failures are returned as they are; nothing is retried.
func (s *Session) ExchangeAuthorizationCode(ctx context.Context, code string) error {
	tokens, err := s.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}
	if s.store == nil {
		return fmt.Errorf("no credential store configured")
	}
	if err := s.store.SaveRefreshToken(tokens.Refresh); err != nil {
		return fmt.Errorf("store refresh credential: %w", err)
	}

	account, _ := AccountFromToken(tokens.Access)
	if err := SaveState(s.store, State{LoggedIn: true, Account: account}); err != nil {
		s.log.Warn("could not save auth state", s.log.Args("error", err))
	}
	s.Reset()
	s.log.Debug("authorization code exchanged", s.log.Args("account", account))
	return nil
}

// Reset drops the cached access token. The refresh credential is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	s.access = ""
	s.gen++
	s.mu.Unlock()
}

// Clear drops the refresh credential and the cached access token.
func (s *Session) Clear() error {
	s.Reset()
	if s.store == nil {
		return nil
	}
	return s.store.ClearAuth()
}

// State returns the stored display state.
func (s *Session) State() (State, error) {
	if s.store == nil {
		return State{}, nil
	}
	return LoadState(s.store)
}
