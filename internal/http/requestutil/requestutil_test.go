package requestutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	got := SanitizeRequestID("bad id")
	if got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected uuid replacement, got %s", got)
	}
	useFallback.Store(true)
	defer useFallback.Store(false)
	fallback := NewRequestID()
	if fallback == "" {
		t.Fatalf("expected fallback request id when RNG fails")
	}
	if !requestIDPattern.MatchString(fallback) {
		t.Fatalf("expected fallback id to be a valid request id, got %s", fallback)
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9:1234" {
		t.Fatalf("expected remote addr fallback, got %s", got)
	}
}

func TestFirstParam(t *testing.T) {
	q := url.Values{"odds_format": {"american"}}
	if got := FirstParam(q, "oddsFormat", "odds_format"); got != "american" {
		t.Fatalf("expected snake_case fallback, got %q", got)
	}
	q.Set("oddsFormat", "decimal")
	if got := FirstParam(q, "oddsFormat", "odds_format"); got != "decimal" {
		t.Fatalf("expected first key to win, got %q", got)
	}
	if got := FirstParam(url.Values{}, "missing"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestBoolParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{raw: "", want: false},
		{raw: "true", want: true},
		{raw: "FALSE", want: false},
		{raw: "yes", wantErr: true},
	}
	for _, tt := range tests {
		q := url.Values{}
		if tt.raw != "" {
			q.Set("all", tt.raw)
		}
		got, err := BoolParam(q, "all", false)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("BoolParam(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("BoolParam(%q) = %v, %v; want %v", tt.raw, got, err, tt.want)
		}
	}
}

func TestNumericParams(t *testing.T) {
	q := url.Values{"horizon": {"10"}, "confidence": {"0.95"}, "bad": {"x"}}
	if n, err := IntParam(q, "horizon", 1); err != nil || n != 10 {
		t.Fatalf("expected 10, got %d %v", n, err)
	}
	if n, err := IntParam(q, "missing", 7); err != nil || n != 7 {
		t.Fatalf("expected default 7, got %d %v", n, err)
	}
	if _, err := IntParam(q, "bad", 0); err == nil {
		t.Fatalf("expected int parse error")
	}
	if f, err := FloatParam(q, "confidence", 0); err != nil || f != 0.95 {
		t.Fatalf("expected 0.95, got %v %v", f, err)
	}
	if f, err := FloatParam(q, "missing", 0.99); err != nil || f != 0.99 {
		t.Fatalf("expected default, got %v %v", f, err)
	}
	if _, err := FloatParam(q, "bad", 0); err == nil {
		t.Fatalf("expected float parse error")
	}
}
