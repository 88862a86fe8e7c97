// Package prices serves daily bars for a symbol.
package prices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/cache"
	domainprices "github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

// ErrSymbolRequired is returned when no symbol is given.
var ErrSymbolRequired = errors.New("symbol is required")

const defaultLookbackDays = 365

// Service fetches and caches daily price series.
type Service struct {
	provider     providers.PriceProvider
	loader       cache.Loader
	lookbackDays int
	now          func() time.Time
}

// NewService builds a Service. A zero from date reaches lookbackDays back from to.
func NewService(provider providers.PriceProvider, loader cache.Loader, lookbackDays int) *Service {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}
	return &Service{provider: provider, loader: loader, lookbackDays: lookbackDays, now: time.Now}
}

// Daily returns the series for symbol between from and to inclusive. Zero bounds use defaults.
func (s *Service) Daily(ctx context.Context, symbol string, from, to time.Time) (domainprices.Series, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return domainprices.Series{}, ErrSymbolRequired
	}
	if to.IsZero() {
		to = timeutil.TruncateDay(s.now())
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -s.lookbackDays)
	}
	if to.Before(from) {
		return domainprices.Series{}, fmt.Errorf("to date %s is before from date %s", timeutil.FormatDate(to), timeutil.FormatDate(from))
	}

	key := fmt.Sprintf("prices:%s:%s:%s", symbol, timeutil.FormatDate(from), timeutil.FormatDate(to))
	bars, err := cache.GetOrLoad(ctx, s.loader, key, func(ctx context.Context) ([]domainprices.Bar, error) {
		return s.provider.FetchDaily(ctx, symbol, from, to)
	})
	if err != nil {
		return domainprices.Series{}, err
	}
	return domainprices.NewSeries(symbol, bars).Between(from, to), nil
}
