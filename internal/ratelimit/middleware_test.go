package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	handler := Handler{
		Limiter: Limiter{Client: client, Prefix: "rl:"},
		Config: Config{
			Key:    func(*http.Request) string { return "checkout" },
			Window: time.Minute,
			Max:    1,
		},
	}
	wrapped := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "RATE_LIMITED") {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected remaining header %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestMiddlewareFailsOpenOnLimiterError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	mr.Close()

	var reported error
	handler := Handler{
		Limiter: Limiter{Client: client, Prefix: "rl:"},
		Config: Config{
			Key:    func(*http.Request) string { return "checkout" },
			Window: time.Minute,
			Max:    1,
		},
		OnError: func(err error) { reported = err },
	}
	wrapped := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected checkout to pass when redis is down, got %d", rr.Code)
	}
	if reported == nil {
		t.Fatal("expected limiter error to be reported")
	}
}
