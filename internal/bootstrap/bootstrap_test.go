// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/99designs/keyring"

	"discoverybridge/cli/internal/auth"
	"discoverybridge/cli/internal/backend"
	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/keychain"
)

// fixture wires a Local runtime to fake API and token servers.
type fixture struct {
	rt       *host.Local
	conn     *Connector
	api      *httptest.Server
	store    *keychain.Manager
	alerts   []string
	refreshN atomic.Int32

	mu      sync.Mutex
	bodies  map[string]string
	headers []string
}

func newFixture(t *testing.T, connectionData string, handler http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{bodies: map[string]string{}}

	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"a0","refresh_token":"r1","token_type":"Bearer"}`))
		case "refresh_token":
			n := f.refreshN.Add(1)
			fmt.Fprintf(w, `{"access_token":"access-%d","token_type":"Bearer"}`, n)
		}
	}))
	t.Cleanup(idp.Close)

	f.api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.bodies[r.URL.Path] = string(b)
		f.headers = append(f.headers, r.Header.Get("Authorization"))
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.api.Close)

	f.store = keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil))
	ex := auth.NewExchanger(auth.ExchangerConfig{
		TokenURL:    idp.URL + "/oauth/token",
		ClientID:    "client",
		RedirectURL: "http://localhost:9001/callback",
	})
	session := auth.NewSession(ex, f.store)

	f.rt = host.NewLocal(connectionData)
	f.conn = Setup(f.rt, Deps{
		Session: session,
		API:     backend.New(f.api.URL, session),
		Alerter: AlertFunc(func(msg string) { f.alerts = append(f.alerts, msg) }),
	})
	return f
}

func (f *fixture) body(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *fixture) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.headers...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestQueryModeRoundTrip(t *testing.T) {
	f := newFixture(t, `{"mode":"query","query":"SELECT 1"}`, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/query/describe":
			writeJSON(w, []map[string]string{{"name": "One", "type": "integer"}})
		case "/api/v1/query":
			writeJSON(w, []map[string]any{{"one": 1}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	if err := f.rt.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	schemas, err := f.rt.Schemas(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(schemas) != 1 || schemas[0].ID != "query" || schemas[0].Description != "SELECT 1" {
		t.Fatalf("Schemas() = %+v", schemas)
	}
	if got := f.body("/api/v1/query/describe"); got != "SELECT 1" {
		t.Errorf("describe body = %q", got)
	}

	got, err := f.rt.Rows(ctx, schemas[0])
	if err != nil {
		t.Fatal(err)
	}
	if got := f.body("/api/v1/query"); got != "SELECT 1" {
		t.Errorf("query body = %q, want SELECT 1", got)
	}
	if len(got) != 1 || got[0][0] != json.Number("1") {
		t.Errorf("Rows() = %#v", got)
	}
	for _, h := range f.authHeaders() {
		if h != "" {
			t.Errorf("unauthenticated session sent Authorization %q", h)
		}
	}
}

func TestInitExchangesCodeAndAuthorizesLaterCalls(t *testing.T) {
	f := newFixture(t, `{"mode":"catalog"}`, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"results": []any{}})
	})
	f.rt.SetCurrentURL("http://localhost:9001/callback?code=good&state=s")
	ctx := context.Background()

	if err := f.rt.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if len(f.alerts) != 0 {
		t.Fatalf("alerts = %v", f.alerts)
	}
	if rt, _ := f.store.LoadRefreshToken(); rt != "r1" {
		t.Fatalf("refresh credential = %q, want r1", rt)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.rt.Schemas(ctx); err != nil {
			t.Fatal(err)
		}
	}
	// Every host invocation starts with a fresh access token.
	h := f.authHeaders()
	if len(h) != 2 || h[0] != "Bearer access-1" || h[1] != "Bearer access-2" {
		t.Errorf("headers = %v", h)
	}
}

func TestInitAlertsOnExchangeFailureAndStillCompletes(t *testing.T) {
	f := newFixture(t, `{"mode":"catalog"}`, func(w http.ResponseWriter, r *http.Request) {})
	f.rt.SetCurrentURL("http://localhost:9001/callback?code=bad")

	if err := f.rt.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() = %v, want completion", err)
	}
	if len(f.alerts) != 1 {
		t.Fatalf("alerts = %v", f.alerts)
	}
	want := "Unable to authenticate: authorization_code exchange failed: 401 Unauthorized"
	if f.alerts[0] != want {
		t.Errorf("alert = %q, want %q", f.alerts[0], want)
	}
}

func TestInitWithoutCodeDoesNothing(t *testing.T) {
	f := newFixture(t, `{"mode":"catalog"}`, func(w http.ResponseWriter, r *http.Request) {})
	f.rt.SetCurrentURL("http://localhost:9001/connector.html")

	if err := f.rt.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(f.alerts) != 0 || f.refreshN.Load() != 0 {
		t.Errorf("alerts = %v, refreshes = %d", f.alerts, f.refreshN.Load())
	}
}

func TestDictionaryFailureAbortsSchemaCall(t *testing.T) {
	f := newFixture(t, `{"mode":"catalog"}`, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/dataset/search":
			writeJSON(w, map[string]any{"results": []map[string]any{
				{"id": "a", "title": "A", "fileTypes": []string{"CSV"}},
				{"id": "b", "title": "B", "fileTypes": []string{"CSV"}},
			}})
		case strings.HasSuffix(r.URL.Path, "/b/dictionary"):
			w.WriteHeader(http.StatusBadGateway)
		default:
			writeJSON(w, []map[string]string{{"name": "x", "type": "string"}})
		}
	})

	schemas, err := f.rt.Schemas(context.Background())
	if schemas != nil {
		t.Errorf("Schemas() = %+v, want none", schemas)
	}
	var rf *apperrors.RequestFailed
	if !errors.As(err, &rf) || rf.Status != http.StatusBadGateway {
		t.Errorf("err = %v, want RequestFailed 502", err)
	}
}

func TestCatalogDataFetch(t *testing.T) {
	f := newFixture(t, `{"mode":"catalog"}`, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/dataset/search":
			writeJSON(w, map[string]any{"results": []map[string]any{
				{"id": "Bus-Stops", "title": "Bus Stops", "fileTypes": []string{"GEOJSON"}},
			}})
		case "/api/v1/dataset/Bus-Stops/dictionary":
			writeJSON(w, []map[string]string{{"name": "Name", "type": "string"}, {"name": "Feature", "type": "json"}})
		case "/api/v1/dataset/Bus-Stops/query":
			writeJSON(w, []map[string]any{{"name": "Main St", "feature": map[string]any{"geometry": "POINT(0 0)"}}})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	schemas, err := f.rt.Schemas(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if schemas[0].ID != "bus_stops" || schemas[0].Alias != "Bus Stops" || schemas[0].Description != "Bus-Stops" {
		t.Fatalf("schema = %+v", schemas[0])
	}
	got, err := f.rt.Rows(ctx, schemas[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0][0] != "Main St" || got[0][1] != "POINT(0 0)" {
		t.Errorf("Rows() = %#v", got)
	}
}

func TestInvalidConnectionData(t *testing.T) {
	f := newFixture(t, `not json`, func(w http.ResponseWriter, r *http.Request) {})

	_, err := f.rt.Schemas(context.Background())
	var e *apperrors.E
	if !errors.As(err, &e) || e.Kind != apperrors.InvalidConnection {
		t.Errorf("err = %v, want invalid_connection", err)
	}
}
