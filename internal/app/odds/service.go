// Package odds serves live odds data through the response cache.
package odds

import (
	"context"
	"fmt"
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/cache"
	domainodds "github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// MaxDaysFrom is the furthest back the scores endpoint reaches.
const MaxDaysFrom = 3

// Service fronts the odds provider. Sports, scores and odds are cached; quota never is.
type Service struct {
	provider   providers.OddsProvider
	loader     cache.Loader
	oddsFormat string
	dateFormat string
}

// NewService builds a Service. loader.Cache may be nil to disable caching.
func NewService(provider providers.OddsProvider, loader cache.Loader, oddsFormat, dateFormat string) *Service {
	if oddsFormat == "" {
		oddsFormat = domainodds.FormatDecimal
	}
	if dateFormat == "" {
		dateFormat = domainodds.DateISO
	}
	return &Service{provider: provider, loader: loader, oddsFormat: oddsFormat, dateFormat: dateFormat}
}

// Sports lists in-season sports, or every sport when all is set.
func (s *Service) Sports(ctx context.Context, all bool) ([]domainodds.Sport, error) {
	key := fmt.Sprintf("sports:all=%t", all)
	return cache.GetOrLoad(ctx, s.loader, key, func(ctx context.Context) ([]domainodds.Sport, error) {
		return s.provider.Sports(ctx, all)
	})
}

// Scores returns live and upcoming games, plus completed ones from the last daysFrom days (0 to omit).
func (s *Service) Scores(ctx context.Context, sport string, daysFrom int) ([]domainodds.ScoreEvent, error) {
	sport = strings.TrimSpace(sport)
	if sport == "" {
		return nil, domainodds.ErrSportRequired
	}
	if daysFrom < 0 || daysFrom > MaxDaysFrom {
		return nil, fmt.Errorf("daysFrom must be between 0 and %d", MaxDaysFrom)
	}
	key := fmt.Sprintf("scores:%s:%d", sport, daysFrom)
	return cache.GetOrLoad(ctx, s.loader, key, func(ctx context.Context) ([]domainodds.ScoreEvent, error) {
		return s.provider.Scores(ctx, sport, daysFrom)
	})
}

// Odds validates q, fills defaults and returns bookmaker odds.
func (s *Service) Odds(ctx context.Context, q domainodds.OddsQuery) ([]domainodds.Event, error) {
	q = q.WithDefaults(s.oddsFormat, s.dateFormat)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return cache.GetOrLoad(ctx, s.loader, q.CacheKey(), func(ctx context.Context) ([]domainodds.Event, error) {
		return s.provider.Odds(ctx, q)
	})
}

// Quota reports request usage straight from the provider.
func (s *Service) Quota(ctx context.Context) (domainodds.Quota, error) {
	return s.provider.Quota(ctx)
}
