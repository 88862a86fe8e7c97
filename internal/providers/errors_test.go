package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestRateLimitErrorString(t *testing.T) {
	err := &RateLimitError{
		Provider:   "p",
		StatusCode: 429,
		Message:    "rate limited",
	}
	if got := err.Error(); got == "" || got == "rate limited" {
		t.Fatalf("expected status in error string, got %q", got)
	}

	rl, ok := AsRateLimitError(fmt.Errorf("wrapped: %w", err))
	if !ok || rl == nil {
		t.Fatalf("expected to unwrap rate limit error")
	}

	noStatus := &RateLimitError{}
	if got := noStatus.Error(); got == "" {
		t.Fatalf("expected fallback message")
	}
}

func TestErrorFromResponse(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")
	resp.Header.Set("x-requests-remaining", "0")

	err := ErrorFromResponse("oddsapi", resp, []byte("slow down"))
	rl, ok := AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected rate limit error, got %T", err)
	}
	if rl.RetryAfter != 3*time.Second || rl.Remaining != "0" {
		t.Fatalf("unexpected rate limit error %+v", rl)
	}

	long := strings.Repeat("x", 2000)
	err = ErrorFromResponse("oddsapi", &http.Response{StatusCode: http.StatusUnauthorized, Header: http.Header{}}, []byte(long))
	se, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected status error, got %T", err)
	}
	if len(se.Body) != maxErrorBody {
		t.Fatalf("expected body truncated to %d, got %d", maxErrorBody, len(se.Body))
	}
	if se.Temporary() {
		t.Fatalf("401 should not be temporary")
	}
}

func TestStatusErrorMatchesNotFound(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &StatusError{Provider: "stooq", StatusCode: http.StatusNotFound})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected 404 status error to match ErrNotFound")
	}
	if errors.Is(&StatusError{StatusCode: 500}, ErrNotFound) {
		t.Fatalf("500 should not match ErrNotFound")
	}
}

func TestParseRetryAfter(t *testing.T) {
	cases := map[string]time.Duration{
		"":      0,
		"5":     5 * time.Second,
		" 10 ":  10 * time.Second,
		"-1":    0,
		"later": 0,
	}
	for in, want := range cases {
		if got := ParseRetryAfter(in); got != want {
			t.Fatalf("ParseRetryAfter(%q) = %s, want %s", in, got, want)
		}
	}
}
