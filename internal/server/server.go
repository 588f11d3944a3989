// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server exposes a host runtime over HTTP so a browser or another
// process can log in and pull schemas and rows from the adapter.
package server

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pterm/pterm"

	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/logging"
	"discoverybridge/cli/internal/rows"
)

// stateTTL bounds how long a /login state value stays redeemable.
const stateTTL = 10 * time.Minute

// APIError is the JSON body of every error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"upstreamStatus,omitempty"`
}

// Config wires a Server.
type Config struct {
	Runtime     *host.Local
	// AuthCodeURL builds the identity provider authorize URL for a state value.
	AuthCodeURL func(state string) string
	// OnCallback, if set, is told the outcome of every redeemed callback.
	OnCallback  func(err error)
	Logger      *pterm.Logger
}

// Server is the HTTP host surface.
type Server struct {
	rt         *host.Local
	authURL    func(string) string
	onCallback func(error)
	log        *pterm.Logger
	engine     *gin.Engine

	mu     sync.Mutex
	states map[string]time.Time
	alert  string
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		rt:         cfg.Runtime,
		authURL:    cfg.AuthCodeURL,
		onCallback: cfg.OnCallback,
		log:        logging.OrDiscard(cfg.Logger),
		states:     make(map[string]time.Time),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", s.healthz)
	r.GET("/login", s.login)
	r.GET("/callback", s.callback)
	r.GET("/schema", s.schema)
	r.GET("/tables/:id/rows", s.tableRows)
	s.engine = r
	return s
}

// Handler returns the http.Handler serving the routes.
func (s *Server) Handler() http.Handler { return s.engine }

// Alert records a connector alert for the callback in progress.
// It satisfies bootstrap.Alerter.
func (s *Server) Alert(msg string) {
	s.log.Warn("connector alert", s.log.Args("message", msg))
	s.mu.Lock()
	s.alert = msg
	s.mu.Unlock()
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) login(c *gin.Context) {
	if s.authURL == nil {
		respondError(c, http.StatusNotImplemented, "login_unavailable", "no identity provider configured", 0)
		return
	}
	state := uuid.NewString()
	s.mu.Lock()
	s.pruneLocked(time.Now())
	s.states[state] = time.Now()
	s.mu.Unlock()
	c.Redirect(http.StatusFound, s.authURL(state))
}

func (s *Server) callback(c *gin.Context) {
	if !s.redeem(c.Query("state")) {
		respondError(c, http.StatusBadRequest, "invalid_state", "unknown or expired login state", 0)
		return
	}
	if c.Query("code") == "" {
		respondError(c, http.StatusBadRequest, "missing_code", "callback carries no authorization code", 0)
		return
	}

	s.mu.Lock()
	s.alert = ""
	s.mu.Unlock()

	s.rt.SetCurrentURL(c.Request.URL.String())
	if err := s.rt.Initialize(c.Request.Context()); err != nil {
		s.notify(err)
		respondFailure(c, err)
		return
	}

	s.mu.Lock()
	alert := s.alert
	s.mu.Unlock()
	if alert != "" {
		s.notify(errors.New(alert))
		respondError(c, http.StatusUnauthorized, "authentication_failed", alert, 0)
		return
	}
	s.notify(nil)
	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}

func (s *Server) notify(err error) {
	if s.onCallback != nil {
		s.onCallback(err)
	}
}

func (s *Server) schema(c *gin.Context) {
	schemas, err := s.rt.Schemas(c.Request.Context())
	if err != nil {
		respondFailure(c, err)
		return
	}
	if schemas == nil {
		schemas = []host.TableSchema{}
	}
	c.JSON(http.StatusOK, schemas)
}

func (s *Server) tableRows(c *gin.Context) {
	ctx := c.Request.Context()
	schemas, err := s.rt.Schemas(ctx)
	if err != nil {
		respondFailure(c, err)
		return
	}
	id := c.Param("id")
	var (
		info  host.TableSchema
		found bool
	)
	for _, t := range schemas {
		if t.ID == id {
			info, found = t, true
			break
		}
	}
	if !found {
		respondError(c, http.StatusNotFound, string(apperrors.TableNotFound), "no table "+id+" in the current schema", 0)
		return
	}

	data, err := s.rt.Rows(ctx, info)
	if err != nil {
		respondFailure(c, err)
		return
	}
	if data == nil {
		data = [][]any{}
	}

	if c.Query("format") == "csv" {
		writeCSV(c, info, data)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": info, "rows": data})
}

func writeCSV(c *gin.Context, info host.TableSchema, data [][]any) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	w := csv.NewWriter(c.Writer)
	header := make([]string, len(info.Columns))
	for i, col := range info.Columns {
		header[i] = col.ID
	}
	_ = w.Write(header)
	for _, row := range data {
		rec, err := rows.TextRow(info, row)
		if err != nil {
			// headers are already out; end the body early
			_ = c.Error(err)
			break
		}
		_ = w.Write(rec)
	}
	w.Flush()
}

func (s *Server) redeem(state string) bool {
	if state == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())
	if _, ok := s.states[state]; !ok {
		return false
	}
	delete(s.states, state)
	return true
}

func (s *Server) pruneLocked(now time.Time) {
	for k, t := range s.states {
		if now.Sub(t) > stateTTL {
			delete(s.states, k)
		}
	}
}

// respondFailure maps an adapter error to a response. Upstream request
// failures become 502 carrying the upstream status.
func respondFailure(c *gin.Context, err error) {
	var rf *apperrors.RequestFailed
	var e *apperrors.E
	switch {
	case errors.As(err, &rf):
		respondError(c, http.StatusBadGateway, "upstream_failed", err.Error(), rf.Status)
	case errors.As(err, &e):
		respondError(c, http.StatusBadRequest, string(e.Kind), err.Error(), 0)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "timeout", err.Error(), 0)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err.Error(), 0)
	}
}

func respondError(c *gin.Context, status int, code, message string, upstream int) {
	c.JSON(status, APIError{Code: code, Message: logging.Mask(message), Status: upstream})
}
