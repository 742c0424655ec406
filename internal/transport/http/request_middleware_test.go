// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/dverbeek/windriver/internal/domain"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	var seen string
	handler := requestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected generated request id in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid request id, got %q", seen)
	}
	if rec.Header().Get(headerRequestID) != seen {
		t.Fatal("response header must echo the request id")
	}
}

func TestRequestIDMiddlewarePreservesClientID(t *testing.T) {
	handler := requestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := requestIDFromContext(r.Context())
		if id != "client-supplied" {
			t.Fatalf("expected client id preserved, got %q", id)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.Header.Set(headerRequestID, "client-supplied")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestStatusRecorderDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	if _, err := sr.Write([]byte("ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr.status != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", sr.status)
	}

	// a later explicit WriteHeader must not overwrite
	sr.WriteHeader(http.StatusTeapot)
	if sr.status != http.StatusOK {
		t.Fatalf("status must be sticky, got %d", sr.status)
	}
}

type recordedCommand struct {
	rec domain.CommandRecord
}

type captureRecorder struct {
	records []recordedCommand
}

func (c *captureRecorder) Record(ctx context.Context, rec domain.CommandRecord) error {
	c.records = append(c.records, recordedCommand{rec: rec})
	return nil
}

func (c *captureRecorder) ListRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	out := make([]domain.CommandRecord, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.rec)
	}
	return out, nil
}

func TestCommandAuditMiddlewareRecords(t *testing.T) {
	recorder := &captureRecorder{}
	handler := commandAuditMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	sessionID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/actions", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(recorder.records) != 1 {
		t.Fatalf("expected one audit record got %d", len(recorder.records))
	}
	got := recorder.records[0].rec
	if got.SessionID != sessionID || got.Method != http.MethodPost || got.Status != http.StatusNotFound {
		t.Fatalf("unexpected audit record: %+v", got)
	}
}

func TestCommandAuditMiddlewareSkipsOperationalPaths(t *testing.T) {
	recorder := &captureRecorder{}
	handler := commandAuditMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/healthz", "/metrics", "/version", "/status", "/commands"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(recorder.records) != 0 {
		t.Fatalf("operational paths must not be audited: %+v", recorder.records)
	}
}

func TestSessionIDFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/session/abc/actions", "abc"},
		{"/session/abc", "abc"},
		{"/session", ""},
		{"/sessions", ""},
		{"/healthz", ""},
	}
	for _, tc := range cases {
		if got := sessionIDFromPath(tc.path); got != tc.want {
			t.Fatalf("sessionIDFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
