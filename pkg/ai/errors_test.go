// ABOUTME: Tests for the upstream error taxonomy
// ABOUTME: Status mapping, sentinel matching through wrapping, and AsUpstream fallback

package ai

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindForStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   ErrorKind
	}{
		{401, KindAuth},
		{403, KindAuth},
		{429, KindRateLimit},
		{400, KindMalformedRequest},
		{422, KindMalformedRequest},
		{500, KindUnknown},
		{529, KindUnknown},
		{0, KindUnknown},
	}
	for _, tt := range tests {
		if got := KindForStatus(tt.status); got != tt.want {
			t.Errorf("KindForStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestUpstreamErrorIs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("generate final: %w", NewStatusError(429, "slow down"))
	if !errors.Is(err, ErrUpstreamRateLimit) {
		t.Error("wrapped 429 should match ErrUpstreamRateLimit")
	}
	if errors.Is(err, ErrUpstreamAuth) {
		t.Error("429 must not match ErrUpstreamAuth")
	}
	if got := err.Error(); got != "generate final: upstream rate_limit error (status 429): slow down" {
		t.Errorf("message = %q", got)
	}
}

func TestAsUpstream(t *testing.T) {
	t.Parallel()

	if AsUpstream(nil) != nil {
		t.Error("AsUpstream(nil) should be nil")
	}

	cause := errors.New("connection refused")
	ue := AsUpstream(cause)
	if ue.Kind != KindUnknown || !errors.Is(ue, cause) {
		t.Errorf("got %+v, want unknown wrapping cause", ue)
	}

	typed := NewStatusError(401, "bad key")
	if AsUpstream(fmt.Errorf("x: %w", typed)) != typed {
		t.Error("AsUpstream should unwrap to the typed error")
	}
}
