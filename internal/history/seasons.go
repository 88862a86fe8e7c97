package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/better-bets-service/internal/archive"
	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

const defaultConcurrency = 4

// SeasonResult records what was archived for one season.
type SeasonResult struct {
	Season string `json:"season"`
	Key    string `json:"key"`
	Games  int    `json:"games"`
}

// SeasonReport summarizes an NBA season collection.
type SeasonReport struct {
	Teams       int            `json:"teams"`
	FailedTeams []string       `json:"failedTeams,omitempty"`
	Seasons     []SeasonResult `json:"seasons"`
}

// SeasonCollector pulls every team's games and archives one file per season window.
type SeasonCollector struct {
	nba         providers.NBAProvider
	archive     *archive.Archive
	logger      *slog.Logger
	concurrency int
}

// NewSeasonCollector builds a collector. concurrency bounds in-flight team fetches.
func NewSeasonCollector(p providers.NBAProvider, a *archive.Archive, logger *slog.Logger, concurrency int) *SeasonCollector {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &SeasonCollector{nba: p, archive: a, logger: logger, concurrency: concurrency}
}

// Collect archives the seasons starting in each of startYears. A team whose fetch fails is
// logged and left out. Archive write failures are returned joined.
func (c *SeasonCollector) Collect(ctx context.Context, startYears []int) (SeasonReport, error) {
	logger := logging.FromContext(ctx, c.logger)
	if len(startYears) == 0 {
		return SeasonReport{}, errors.New("at least one season is required")
	}

	roster, err := c.nba.FetchTeams(ctx)
	if err != nil {
		return SeasonReport{}, fmt.Errorf("load teams: %w", err)
	}
	report := SeasonReport{Teams: len(roster)}

	var (
		mu     sync.Mutex
		pooled = make(map[int][]games.Game, len(startYears))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, team := range roster {
		team := team
		g.Go(func() error {
			collected, err := c.teamGames(gctx, team, startYears)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				report.FailedTeams = append(report.FailedTeams, team.ID)
				logging.Error(logger, "team games fetch failed", err, slog.String("team", team.ID))
				return nil
			}
			for year, items := range collected {
				pooled[year] = append(pooled[year], items...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	var writeErrs []error
	for _, year := range startYears {
		window := games.SeasonWindow{StartYear: year}
		snapshot := games.NewSeasonSnapshot(window, games.FilterSeason(pooled[year], window))
		key := archive.NBASeasonKey(window.Label())
		if err := c.archive.WriteJSON(key, snapshot); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("write %s: %w", key, err))
			continue
		}
		report.Seasons = append(report.Seasons, SeasonResult{Season: snapshot.Season, Key: key, Games: snapshot.Count})
		logging.Info(logger, "season archived", slog.String(logging.FieldKey, key), slog.Int(logging.FieldCount, snapshot.Count))
	}
	return report, errors.Join(writeErrs...)
}

// teamGames fetches a team's games for each season. Any season failing fails the team.
func (c *SeasonCollector) teamGames(ctx context.Context, team teams.Team, startYears []int) (map[int][]games.Game, error) {
	out := make(map[int][]games.Game, len(startYears))
	for _, year := range startYears {
		items, err := c.nba.FetchTeamGames(ctx, team, year)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", year, err)
		}
		out[year] = items
	}
	return out, nil
}
