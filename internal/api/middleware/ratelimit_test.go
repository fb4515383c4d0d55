package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	m := NewRateLimitMiddleware(nil, 60, false)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/analyses", nil)
	rec := httptest.NewRecorder()

	m.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if limit := rec.Header().Get("X-RateLimit-Limit"); limit != "" {
		t.Errorf("disabled limiter should not set headers, got X-RateLimit-Limit = %q", limit)
	}
}

func TestRateLimitMiddleware_NilCache(t *testing.T) {
	// Enabled but without a cache the limiter must pass requests through.
	m := NewRateLimitMiddleware(nil, 60, true)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/analyses", nil)
	rec := httptest.NewRecorder()

	m.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimitKey(t *testing.T) {
	m := NewRateLimitMiddleware(nil, 60, true)

	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:      "prefers X-Forwarded-For",
			forwarded: "203.0.113.7",
			realIP:    "198.51.100.2",
			want:      "ip:203.0.113.7",
		},
		{
			name:   "falls back to X-Real-IP",
			realIP: "198.51.100.2",
			want:   "ip:198.51.100.2",
		},
		{
			name:       "falls back to remote addr",
			remoteAddr: "192.0.2.1:4242",
			want:       "ip:192.0.2.1:4242",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}

			if got := m.getRateLimitKey(req); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
