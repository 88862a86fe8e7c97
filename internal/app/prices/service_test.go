package prices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preston-bernstein/better-bets-service/internal/cache"
	domainprices "github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/teststubs"
)

func bar(day string, close float64) domainprices.Bar {
	d, _ := time.Parse("2006-01-02", day)
	return domainprices.Bar{Symbol: "AAPL", Date: d, Close: decimal.NewFromFloat(close), AdjClose: decimal.NewFromFloat(close)}
}

func TestDailySortsAndCaches(t *testing.T) {
	p := &teststubs.StubPriceProvider{Bars: map[string][]domainprices.Bar{
		"AAPL": {bar("2024-01-03", 102), bar("2024-01-02", 101)},
	}}
	svc := NewService(p, cache.Loader{Cache: cache.NewMemoryCache(), TTL: time.Minute}, 0)
	from, _ := time.Parse("2006-01-02", "2024-01-01")
	to, _ := time.Parse("2006-01-02", "2024-01-31")

	for i := 0; i < 2; i++ {
		series, err := svc.Daily(context.Background(), " aapl ", from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if series.Symbol != "AAPL" || series.Count != 2 || !series.Bars[0].Close.Equal(decimal.NewFromInt(101)) {
			t.Fatalf("unexpected series %+v", series)
		}
	}
	if p.Calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", p.Calls.Load())
	}
}

func TestDailyDefaultsRange(t *testing.T) {
	p := &teststubs.StubPriceProvider{Bars: map[string][]domainprices.Bar{"MSFT": nil}}
	svc := NewService(p, cache.Loader{}, 30)
	svc.now = func() time.Time { return time.Date(2024, 2, 15, 18, 0, 0, 0, time.UTC) }

	series, err := svc.Daily(context.Background(), "msft", time.Time{}, time.Time{})
	if err != nil || series.Count != 0 {
		t.Fatalf("expected empty series, got %+v %v", series, err)
	}
}

func TestDailyValidation(t *testing.T) {
	svc := NewService(&teststubs.StubPriceProvider{}, cache.Loader{}, 0)
	if _, err := svc.Daily(context.Background(), "", time.Time{}, time.Time{}); !errors.Is(err, ErrSymbolRequired) {
		t.Fatalf("expected symbol required, got %v", err)
	}
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Daily(context.Background(), "AAPL", from, from.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected inverted range error")
	}
}

func TestDailyProviderError(t *testing.T) {
	svc := NewService(&teststubs.StubPriceProvider{Err: errors.New("down")}, cache.Loader{}, 0)
	if _, err := svc.Daily(context.Background(), "AAPL", time.Time{}, time.Time{}); err == nil {
		t.Fatal("expected provider error")
	}
}
