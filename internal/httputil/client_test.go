// ABOUTME: Tests for the outbound HTTP client
// ABOUTME: Default headers, single attempt on failure statuses, base URL normalisation

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoSendsHeadersOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("x-api-key"); got != "k" {
			t.Errorf("x-api-key = %q", got)
		}
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("  rate limited \n"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, map[string]string{"x-api-key": "k"}, time.Second)
	resp, err := c.Do(context.Background(), http.MethodPost, "/v1/messages", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body := ReadErrorBody(resp); body != "rate limited" {
		t.Errorf("body = %q", body)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server saw %d calls, want exactly 1", n)
	}
}

func TestDoTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, time.Second)
	if _, err := c.Do(context.Background(), http.MethodGet, "/", nil); err == nil {
		t.Fatal("expected transport error from closed server")
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, suffix, want string
	}{
		{"https://api.anthropic.com", "/v1", "https://api.anthropic.com"},
		{"https://api.anthropic.com/", "/v1", "https://api.anthropic.com"},
		{"http://localhost:8000/v1", "/v1", "http://localhost:8000"},
		{"http://localhost:8000/v1/", "/v1", "http://localhost:8000"},
		{"http://host/proxy/v1", "/v1", "http://host/proxy/v1"},
		{"http://localhost:5001/api", "/api", "http://localhost:5001"},
		{"", "/v1", ""},
	}
	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.in, tt.suffix); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q, %q) = %q, want %q", tt.in, tt.suffix, got, tt.want)
		}
	}
}
