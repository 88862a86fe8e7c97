package prices

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestNewSeriesSortsAndDedupes(t *testing.T) {
	bars := []Bar{
		{Date: day("2024-01-03"), Close: decimal.NewFromInt(12)},
		{Date: day("2024-01-02"), Close: decimal.NewFromInt(10)},
		{Date: day("2024-01-03"), Close: decimal.NewFromInt(11), AdjClose: decimal.RequireFromString("10.5")},
	}
	s := NewSeries("AAPL", bars)
	if s.Count != 2 {
		t.Fatalf("expected 2 bars, got %d", s.Count)
	}
	closes := s.Closes()
	if closes[0] != 10 || closes[1] != 10.5 {
		t.Fatalf("unexpected closes %v", closes)
	}
}

func TestBetween(t *testing.T) {
	s := NewSeries("X", []Bar{
		{Date: day("2024-01-01"), Close: decimal.NewFromInt(1)},
		{Date: day("2024-01-02"), Close: decimal.NewFromInt(2)},
		{Date: day("2024-01-03"), Close: decimal.NewFromInt(3)},
	})
	got := s.Between(day("2024-01-02"), time.Time{})
	if got.Count != 2 || got.Bars[0].Date != day("2024-01-02") {
		t.Fatalf("unexpected window %+v", got)
	}
}
