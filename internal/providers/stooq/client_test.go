package stooq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

const sampleCSV = `Date,Open,High,Low,Close,Volume
2024-01-03,184.22,185.88,183.43,184.25,58414460
2024-01-02,187.15,188.44,183.89,185.64,82488670
2024-01-04,182.15,183.09,180.88,181.91,71983570
`

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestFetchDailyParsesAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/q/d/l/" || r.URL.Query().Get("s") != "aapl.us" || r.URL.Query().Get("i") != "d" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if r.URL.Query().Get("d1") != "20240103" {
			t.Errorf("expected d1 bound, got %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	bars, err := c.FetchDaily(context.Background(), "AAPL", day("2024-01-03"), time.Time{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars after filtering, got %d", len(bars))
	}
	if !bars[0].Date.Equal(day("2024-01-03")) || bars[0].Close.String() != "184.25" {
		t.Fatalf("unexpected first bar %+v", bars[0])
	}
	if bars[1].Volume != 71983570 || bars[1].Symbol != "AAPL" {
		t.Fatalf("unexpected second bar %+v", bars[1])
	}
}

func TestFetchDailyNoDataIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("No data"))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).FetchDaily(context.Background(), "NOPE", time.Time{}, time.Time{})
	if !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseCSVReadsAdjClose(t *testing.T) {
	bars, err := ParseCSV("X", []byte("Date,Open,High,Low,Close,Adj Close,Volume\n2024-01-02,1,2,0.5,1.5,1.25,100\n"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if bars[0].Adjusted().String() != "1.25" {
		t.Fatalf("expected adjusted close 1.25, got %s", bars[0].Adjusted())
	}
}

func TestParseCSVRejectsBadRows(t *testing.T) {
	cases := []string{
		"Date,Open,High,Low,Close\nnot-a-date,1,1,1,1\n",
		"Date,Open,High,Low,Close\n2024-01-02,1,1,1,abc\n",
		"Date,Open,High,Low,Close\n2024-01-02,1,1,1,0\n",
		"Date,Open,Close\n2024-01-02,1,1\n",
	}
	for _, body := range cases {
		if _, err := ParseCSV("X", []byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestTicker(t *testing.T) {
	if Ticker(" MSFT ") != "msft.us" || Ticker("cdr.pl") != "cdr.pl" {
		t.Fatalf("unexpected ticker mapping")
	}
}
