package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atinyakov/TaskKeeper/internal/ratelimit"
)

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/auth/signin", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d should pass, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/signin", nil)
	req.RemoteAddr = "10.0.0.1:9999"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimit_KeyedByHost(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRequest("POST", "/api/auth/signup", nil)
	first.RemoteAddr = "10.0.0.1:1"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected first client admitted, got %d", rec.Code)
	}

	other := httptest.NewRequest("POST", "/api/auth/signup", nil)
	other.RemoteAddr = "10.0.0.2:1"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected second client admitted under its own key, got %d", rec.Code)
	}
}

func TestClientKey_UnknownFallback(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = ""
	if got := clientKey(req); got != unknownClientKey {
		t.Errorf("expected fallback key %q, got %q", unknownClientKey, got)
	}

	req.RemoteAddr = "10.0.0.7:8080"
	if got := clientKey(req); got != "10.0.0.7" {
		t.Errorf("expected host key, got %q", got)
	}
}
