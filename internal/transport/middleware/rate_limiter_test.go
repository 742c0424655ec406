// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// limitedRouter mounts the limiter the way the driver router does, so the
// sessionId route param resolves.
func limitedRouter(limitPerMinute int) http.Handler {
	r := chi.NewRouter()
	r.Route("/session/{sessionId}", func(sr chi.Router) {
		sr.Use(SessionRateLimit(limitPerMinute))
		sr.Post("/actions", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestAllowConsumesTokens(t *testing.T) {
	limiter := newInMemoryRateLimiter()
	now := time.Now()

	for i := 0; i < 3; i++ {
		decision := limiter.Allow("sess-a", 3, now)
		if !decision.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	decision := limiter.Allow("sess-a", 3, now)
	if decision.Allowed {
		t.Fatal("fourth request should be rejected")
	}
	if decision.RetryAfterSeconds < 1 {
		t.Fatalf("expected retry-after >= 1, got %d", decision.RetryAfterSeconds)
	}
}

func TestAllowRefillsOverTime(t *testing.T) {
	limiter := newInMemoryRateLimiter()
	now := time.Now()

	for i := 0; i < 60; i++ {
		limiter.Allow("sess-a", 60, now)
	}
	if limiter.Allow("sess-a", 60, now).Allowed {
		t.Fatal("bucket should be empty")
	}

	// one token per second at 60/min
	if !limiter.Allow("sess-a", 60, now.Add(1100*time.Millisecond)).Allowed {
		t.Fatal("expected a refilled token after one second")
	}
}

func TestAllowIsolatesSessions(t *testing.T) {
	limiter := newInMemoryRateLimiter()
	now := time.Now()

	limiter.Allow("sess-a", 1, now)
	if limiter.Allow("sess-a", 1, now).Allowed {
		t.Fatal("sess-a should be exhausted")
	}
	if !limiter.Allow("sess-b", 1, now).Allowed {
		t.Fatal("sess-b must not share sess-a's bucket")
	}
}

func TestSessionRateLimitMiddleware(t *testing.T) {
	handler := limitedRouter(1)
	path := "/session/" + uuid.NewString() + "/actions"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("expected limit header, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be throttled, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("throttled response must carry Retry-After")
	}
}

func TestSessionRateLimitSkipsUnparsableSessionIDs(t *testing.T) {
	handler := limitedRouter(1)

	// garbage ids 404 downstream and must not each claim a bucket; at
	// limit 1 any bucketing would throttle the repeats
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/not-a-uuid/actions", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected pass-through, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatal("pass-through must not carry rate limit headers")
		}
	}
}

func TestSessionRateLimitDisabled(t *testing.T) {
	handler := limitedRouter(0)
	path := "/session/" + uuid.NewString() + "/actions"

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter must pass everything, got %d", rec.Code)
		}
	}
}
